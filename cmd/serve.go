package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"sheetcal/core/logger"
	"sheetcal/core/middleware/auth"
	"sheetcal/core/middleware/rayid"
	"sheetcal/feature/calendar"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync HTTP server",
	Long: `Starts the HTTP server exposing the sync targets:

  GET  /targets              list targets with staleness
  POST /targets/sync         sync all targets
  POST /targets/:label/sync  sync one target

Both sync endpoints accept ?dry_run=true.`,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, l, service, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We will log our own startup message
	})

	// RayID must be first so everything downstream can trace the request.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		rl.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			rl.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

	calendar.NewHandler(service).RegisterRoutes(app)

	go func() {
		l.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	l.Info("Shutting down server...")
	return app.Shutdown()
}

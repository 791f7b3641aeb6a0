package calendar

import (
	"sheetcal/core/logger"
	"sheetcal/core/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync targets.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the target routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/targets")
	group.Get("/", h.HandleListTargets)
	group.Post("/sync", h.HandleSyncAll)
	group.Post("/:label/sync", h.HandleSyncTarget)
}

// HandleListTargets lists all targets with their staleness.
func (h *Handler) HandleListTargets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	statuses, err := h.service.Statuses(c.Context())
	if err != nil {
		l.Error("Failed to collect target statuses", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"targets": statuses})
}

// HandleSyncAll runs a sync for every configured target.
func (h *Handler) HandleSyncAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	opts := sync.Options{DryRun: c.Query("dry_run") == "true"}

	l.Info("Triggering sync for all targets", zap.Bool("dry_run", opts.DryRun))

	results, err := h.service.Run(c.Context(), nil, opts)
	if err != nil {
		l.Error("Sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"results": results})
}

// HandleSyncTarget runs a sync for a single target.
func (h *Handler) HandleSyncTarget(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	label := c.Params("label")
	opts := sync.Options{DryRun: c.Query("dry_run") == "true"}

	l.Info("Triggering sync", zap.String("target", label), zap.Bool("dry_run", opts.DryRun))

	results, err := h.service.Run(c.Context(), []string{label}, opts)
	if err != nil {
		l.Warn("Sync rejected", zap.String("target", label), zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	result := results[0]
	if result.Error != "" {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

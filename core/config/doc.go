// Package config provides configuration management for sheetcal.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults declared as struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Storage: S3/MinIO credentials and bucket settings for remote spreadsheets
//   - Log: Logging level and format
//   - Sync: targets file location, state directory, calendar backend
//
// The sync target list itself lives in a separate YAML file (targets.yaml by
// default) loaded with LoadTargets.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	targets, err := config.LoadTargets(cfg.Sync.TargetsFile)
package config

// Package config provides configuration management for Parcel Watch.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section and are registered reflectively, so every key can be overridden by
// an environment variable named SECTION_KEY (e.g. RECONCILE_PROXIMITY_THRESHOLD).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, provider payload profile)
//   - Database: MySQL or SQLite connection details for snapshot persistence
//   - Storage: S3/MinIO credentials, bucket and payload prefixes
//   - Log: Logging level and format
//   - Reconcile: proximity threshold and strategy, workers, index cache TTL
//   - Notify: notification channel, routing names and SMTP settings
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Reconcile.ProximityThreshold)
package config

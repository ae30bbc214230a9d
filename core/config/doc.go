// Package config provides configuration management for deluge-submit.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file and an optional config.yaml in the given directory.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Deluge: daemon address, credentials and post-add defaults
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Archive, History: optional features
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Deluge.Host)
package config

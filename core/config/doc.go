// Package config provides configuration management for the reference layer.
//
// It utilizes Viper for loading configuration from environment variables
// and a .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, default workspace)
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Resolver: URL resolution mode, proxy template, signed TTL and freshness
//   - Jobs: poll intervals and the per-job timeout ceiling
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config

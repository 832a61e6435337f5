// Package config provides centralized configuration management for the
// report service. It handles loading configuration from multiple sources,
// validation, and a type-safe API for accessing configuration values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern OPTIQC_* for namespacing:
//
//	OPTIQC_SERVER_PORT=8080
//	OPTIQC_LOGGING_LEVEL=debug
//	OPTIQC_REPORT_HEADER_SCAN_DEPTH=30
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

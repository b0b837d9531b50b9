// Package config provides centralized configuration management for Academic Pulse.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
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
// All environment variables follow the pattern ACADPULSE_<SECTION>_<FIELD>:
//
//	ACADPULSE_SERVER_PORT=8080
//	ACADPULSE_LOGGING_LEVEL=debug
//	ACADPULSE_ANALYSIS_FUZZY_THRESHOLD=0.9
//	ACADPULSE_ANALYSIS_MAX_UPLOAD_BYTES=52428800
//	ACADPULSE_REPORT_HOD_NAME="Dr. A. Rao"
//	ACADPULSE_REPORT_TELUGU_NOTICE=false
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// Use config.Default() for a configuration that needs no environment or files.
package config

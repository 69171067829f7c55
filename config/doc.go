// Package config provides configuration loading and validation utilities
// for scloud client configuration files.
//
// A configuration file holds:
//   - Credentials: client id, client secret, callback URI and an optional access token
//   - Endpoint: scheme, host and port of the API
//   - Transport settings: timeout, extra headers and raw transport options
//
// Files may be YAML, JSON or TOML; the format is picked from the extension.
//
// Basic Usage:
//
//	cfg, err := config.LoadConfig("scloud.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Overlay SCLOUD_* variables, optionally loaded from a .env file
//	_ = config.LoadEnv(".env")
//	config.ApplyEnv(cfg)
//
//	sc := cfg.NewClient()
//
// Configuration Validation:
//
// The ValidateConfig function validates the configuration and returns
// a slice of validation errors:
//
//	errors := config.ValidateConfig(cfg)
//	if len(errors) > 0 {
//	    for _, err := range errors {
//	        log.Printf("Validation error: %s", err)
//	    }
//	}
package config

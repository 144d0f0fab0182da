// Package config handles loading and validating dbtools host configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - The engine DSN can embed credentials; set it via DBTOOLS_ENGINE_DSN
//     rather than committing it to a config file
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logging.SetDefault(logging.New(cfg.Logging))
//
//	db, err := engine.Open(cfg.Engine)
package config

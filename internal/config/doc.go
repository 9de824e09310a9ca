// Package config provides the configuration for the case-study preparation
// tools. It merges defaults, an optional YAML file and LEGO_* environment
// variables into one validated Config.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LEGO_<SECTION>_<FIELD>:
//
//	LEGO_LOGGING_LEVEL=debug
//	LEGO_PATHS_DATA_DIR=/srv/casestudies/base
//	LEGO_PREPARE_SCALE_UNITS=false
//	LEGO_AGGREGATION_CLUSTERS=12
//	LEGO_EXPORT_FORMATS=csv,sqlite
//
// LEGO_CONFIG points at an explicit YAML file; without it the loader probes
// legoio.yaml and configs/legoio.yaml in the working directory.
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

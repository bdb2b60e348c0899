// Package config handles configuration loading for fold-console.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from FOLD_CONSOLE_CONFIG environment variable
//  2. ./console.yaml (current directory)
//  3. ~/.config/fold/console.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	console:
//	  url: "${FOLD_CONSOLE_URL}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Target platform:
//
//	console:
//	  url: "https://admin.example"
//	  whoami_path: "/api/v1/admin/session"
//	  timeout: "30s"
//
// Request gateway:
//
//	auth:
//	  protected_prefixes:
//	    - "/api/v1/admin"
//	    - "/api/v1/backup"
//	    - "/api/v1/crawler"
//	    - "/api/v1/batch"
//
// An empty prefix list disables interception entirely. That is intentional
// fail-open behavior and must be an explicit operator choice.
//
// Local state:
//
//	storage:
//	  state_path: "~/.local/state/fold-console/state.db"
//
// Logging:
//
//	logging:
//	  level: "info"
//	  format: "text"
package config

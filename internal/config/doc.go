// Package config handles configuration loading for taskd.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${TASKD_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/taskd/taskd.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${TASKD_JWT_SECRET}"  # Required, min 32 bytes
//	  token_ttl: "720h"                  # Optional; unset means tokens never expire
//
// Outbound mail (disabled when api_key is empty):
//
//	mail:
//	  api_key: "${SENDGRID_API_KEY}"
//	  from_address: "noreply@example.com"
//	  from_name: "Task App"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() fails fast on a missing or short jwt_secret so the process never
// starts with a signing key it cannot trust.
package config

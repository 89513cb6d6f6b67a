// Package config loads runtime configuration for the tablekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or --config (see (*Config).LoadFile).
//  3. Command-line flags the user set (see RegisterFlags), which override earlier values.
//
// # File format
//
// Files ending in .yaml or .yml are YAML; anything else is JSON that may
// carry comments and trailing commas:
//
//	{
//	  // where accounts and the session live
//	  "database_path": "tablekeeper.db",
//	  "page_size": 2,
//	  "signup_mode": "auto-login",
//	  "credential_codec": "argon2id",
//	  "log_level": "debug",
//	  "seed_records": [
//	    {"id": 1, "name": "John Doe", "email": "john@example.com", "role": "Admin"},
//	  ],
//	}
//
// Keys absent from the file keep their previous value. An explicit empty
// seed_records list starts the table empty.
//
// Note: This package does not read environment variables; use the config
// file or flags.
package config

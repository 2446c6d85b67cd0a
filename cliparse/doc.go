// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - MetricsPath: Path serving prometheus metrics (default: /metrics)
  - DatabaseType: memory, sqlite, postgres or badger (default: memory)
  - DatabaseURL: Connection string, or badger directory (required unless memory)
  - AdminAddress: Address that owns the election (required)
  - TokenSecret: Secret for signing caller tokens (required)
  - TokenTTL: Lifetime of issued caller tokens (default: 24h)
  - ShutdownTimeout: Graceful shutdown timeout (default: 10s)
  - Debug: Debug logging

# Sources

Settings are layered, later sources winning:

 1. Defaults
 2. YAML file named by -c/--config or CONFIG_FILE
 3. Environment variables (a .env file in the working directory is loaded first)
 4. CLI flags

# CLI Flags

	-p, --port             Server port
	    --metrics-path     Metrics path
	-t, --database-type    Database type
	-d, --database-url     Database URL
	-c, --config           YAML config file
	    --admin            Admin address
	    --token-secret     Token signing secret
	    --token-ttl        Token lifetime
	    --shutdown-timeout Graceful shutdown timeout
	    --debug            Debug logging

# Environment Variables

	PORT, METRICS_PATH, DATABASE_TYPE, DATABASE_URL, ADMIN_ADDRESS,
	TOKEN_SECRET, TOKEN_TTL, SHUTDOWN_TIMEOUT, DEBUG

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - ADMIN_ADDRESS must be provided
  - TOKEN_SECRET must be provided
  - DATABASE_URL must be provided unless the database type is memory
*/
package cliparse

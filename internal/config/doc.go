// Package config loads margin's runtime configuration.
//
// # Overview
//
// margin needs to know where the reading tracker backend lives, how long to
// wait for it, where to write its own log and how often to check that the
// backend is still reachable. Everything has a default, so margin runs with
// no configuration at all against a backend on localhost.
//
// # Resolution Order
//
// Load builds the configuration in layers, later layers winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, or ~/.config/margin/config.toml)
//  3. A .env file in the working directory (github.com/joho/godotenv);
//     variables already present in the environment are kept
//  4. MARGIN_* environment variables (github.com/caarlos0/env/v11)
//
// A missing TOML or .env file is not an error.
//
// # Default Values
//
//   - api_url: http://127.0.0.1:8000
//   - timeout_ms: 10000
//   - log_file: ~/.local/state/margin/margin.log
//   - log_level: info
//   - poll_seconds: 15
//
// # TOML Format
//
//	api_url = "http://reading.lan:8000"
//	timeout_ms = 5000
//	log_file = "~/.local/state/margin/margin.log"
//	log_level = "debug"
//	poll_seconds = 30
//
// # Environment Variables
//
//   - MARGIN_API_URL
//   - MARGIN_TIMEOUT_MS
//   - MARGIN_LOG_FILE
//   - MARGIN_LOG_LEVEL
//   - MARGIN_POLL_SECONDS
//
// # Validation
//
// The merged values are checked once. api_url must be an absolute http or
// https URL, timeout_ms and poll_seconds must not be negative (zero keeps the
// default) and log_level must be debug, info, warn or error. Paths get tilde
// expansion and are made absolute.
//
// Load returns a plain Config value; nothing in this package holds global
// state.
package config

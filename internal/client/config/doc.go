// Package config loads runtime configuration for the Deuce CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. DEUCE_* environment variables, also read from ./.env.
//  4. Command-line flags: -u base URL, -t timeout seconds, -d data dir,
//     -l log file, -v log level.
//
// # JSON schema
//
//	{
//	  "base_url": "https://api.deuceleague.com",
//	  "request_timeout": "30s",
//	  "otp_ttl": "10m",
//	  "settle_delay": "300ms",
//	  "hydration_delay": "100ms",
//	  "data_dir": "/home/me/.config/deuce",
//	  "log_file": "/home/me/.config/deuce/deuce.log",
//	  "log_level": "info",
//	  "page_size": 20
//	}
package config

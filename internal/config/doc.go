// Package config provides configuration parsing for statekit consoles.
//
// The configuration is stored in statekit.json. This package handles
// loading and validating it; backend construction from a validated config
// lives with the consumer (the CLI builds local backends, applications wire
// their own clients for redis, sql and s3).
//
// # Configuration File Structure
//
//	{
//	  "name": "ops-console",
//	  "storage": {
//	    "backend": "file",
//	    "file": { "dir": "~/.statekit" },
//	    "redis": { "addr": "localhost:6379", "prefix": "statekit:" },
//	    "sql": { "driver": "pgx", "dsn": "postgres://...", "table": "statekit_entries" },
//	    "s3": { "bucket": "console-state", "prefix": "statekit/" }
//	  },
//	  "keys": {
//	    "auth": "statekit:auth",
//	    "ui": "statekit:ui"
//	  },
//	  "devtools": {
//	    "host": "localhost",
//	    "port": 7677
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Backend:", cfg.Storage.Backend)
package config

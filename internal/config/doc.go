// Package config loads reconcile.json, the configuration shared by the
// vdiff CLI and the inspection server.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": ":7070",
//	    "readLimit": 1048576,
//	    "shutdownTimeout": "5s"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "reconcile",
//	    "path": "/metrics"
//	  },
//	  "tracing": {
//	    "tracerName": "vdiff"
//	  },
//	  "modules": ["props", "attrs", "classes", "styles", "listeners", "context"]
//	}
//
// Every field is optional; missing fields take the defaults from New.
//
// # Usage
//
//	cfg, err := config.LoadOrNew(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, err := cfg.Log.NewLogger(os.Stderr)
package config

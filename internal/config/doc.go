// Package config loads YAML configuration for the gateway and the
// internal services.
//
// Files support ${VAR_NAME} environment variable expansion and duration
// strings ("15m", "168h") for token lifetimes. Configuration is loaded
// once at startup and treated as immutable afterwards; in particular the
// signing secret and the path pattern sets never change at runtime.
package config

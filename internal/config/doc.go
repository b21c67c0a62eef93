// Package config handles configuration loading, parsing, and validation
// from environment variables, .env files and optional YAML files. It gives
// the server and citasctl type-safe access to their settings.
package config

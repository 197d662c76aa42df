// Package config handles configuration loading and management for hitdoc.
//
// It provides functionality for:
//   - Loading configuration from JSON or YAML files
//   - Default configuration values
//   - A process-wide default configuration, overridable per run
package config

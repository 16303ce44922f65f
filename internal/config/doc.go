// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml. Every key can be
// overridden by an environment variable with the CHORECLOCK_ prefix, e.g.
// CHORECLOCK_SCHEDULER_POLL_INTERVAL=15m.
package config

// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. Values are
// validated once at startup; a missing signing secret is a fatal error
// rather than a silent fallback.
package config

// Package config handles configuration for the terminal client: defaults,
// an optional JSON file and command-line flags.
package config

import "time"

// Config holds runtime settings for the task tracker CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API, e.g. http://127.0.0.1:5000.
//   - SessionDBPath: SQLite file holding the saved session token.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	SessionDBPath  string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then JSON (if present) and flags (if
// present). Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

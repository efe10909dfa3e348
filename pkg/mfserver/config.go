package mfserver

import (
	"fmt"
	"time"
)

// Config is the server section of a jarmf config file.
type Config struct {
	Listen        string `json:"listen"`
	MaxBodySize   int64  `json:"max_body_size"`
	MaxLineLength int    `json:"max_line_length"`
	Timeout       string `json:"timeout"`
}

// DefaultTimeout bounds each request when Config.Timeout is empty.
const DefaultTimeout = 60 * time.Second

// RequestTimeout parses Timeout, defaulting to DefaultTimeout.
func (c Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return d, nil
}

// Options converts c into handler options.
func (c Config) Options() []Option {
	var opts []Option
	if c.MaxBodySize > 0 {
		opts = append(opts, WithMaxBodySize(c.MaxBodySize))
	}
	if c.MaxLineLength > 0 {
		opts = append(opts, WithMaxLineLength(c.MaxLineLength))
	}
	return opts
}

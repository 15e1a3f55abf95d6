package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Exchange.RestURL == "" {
		return errors.New("exchange.rest_url is required")
	}
	if len(c.Exchange.Symbols) == 0 {
		return errors.New("exchange.symbols must not be empty")
	}
	for i, s := range c.Exchange.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("exchange.symbols[%d] is empty", i)
		}
	}
	if c.Exchange.Timeout <= 0 {
		return errors.New("exchange.timeout must be > 0")
	}
	if c.Exchange.MaxRetries < 0 {
		return errors.New("exchange.max_retries must be >= 0")
	}

	if c.Polling.Interval <= 0 {
		return errors.New("polling.interval must be > 0")
	}
	if c.Polling.FreshnessTick <= 0 {
		return errors.New("polling.freshness_tick must be > 0")
	}
	if c.Polling.FetchTimeout <= 0 {
		return errors.New("polling.fetch_timeout must be > 0")
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Encoding != "json" && c.Logging.Encoding != "console" {
		return fmt.Errorf("logging.encoding must be json or console, got %q", c.Logging.Encoding)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Journal.Enabled && c.Journal.Retention < 0 {
		return errors.New("journal.retention must be >= 0")
	}

	return nil
}

package config

import (
	"time"

	"github.com/vitos/tickerwatch/internal/domain"
)

// Default values for optional configuration fields.
const (
	DefaultRestURL         = "https://api-pub.bitfinex.com/v2"
	DefaultTimeout         = 10 * time.Second
	DefaultMaxRetries      = 2
	DefaultRetryBackoff    = 500 * time.Millisecond
	DefaultPollInterval    = 5 * time.Second
	DefaultFreshnessTick   = time.Second
	DefaultFetchTimeout    = 15 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogEncoding     = "json"
	DefaultPort            = 8080
	DefaultShutdownTimeout = 5 * time.Second
	DefaultJournalPath     = "tickerwatch.db"
	DefaultRetention       = 24 * time.Hour
)

func (c *Config) applyDefaults() {
	// Exchange defaults
	if c.Exchange.RestURL == "" {
		c.Exchange.RestURL = DefaultRestURL
	}
	if len(c.Exchange.Symbols) == 0 {
		c.Exchange.Symbols = append([]string(nil), domain.DefaultSymbols...)
	}
	if c.Exchange.Timeout == 0 {
		c.Exchange.Timeout = DefaultTimeout
	}
	if c.Exchange.MaxRetries == 0 {
		c.Exchange.MaxRetries = DefaultMaxRetries
	}
	if c.Exchange.RetryBackoff == 0 {
		c.Exchange.RetryBackoff = DefaultRetryBackoff
	}

	// Polling defaults
	if c.Polling.Interval == 0 {
		c.Polling.Interval = DefaultPollInterval
	}
	if c.Polling.FreshnessTick == 0 {
		c.Polling.FreshnessTick = DefaultFreshnessTick
	}
	if c.Polling.FetchTimeout == 0 {
		c.Polling.FetchTimeout = DefaultFetchTimeout
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = DefaultLogEncoding
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Journal defaults
	if c.Journal.Path == "" {
		c.Journal.Path = DefaultJournalPath
	}
	if c.Journal.Retention == 0 {
		c.Journal.Retention = DefaultRetention
	}
}

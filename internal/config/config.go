package config

import "time"

// Config is the root configuration of tickerwatch.
type Config struct {
	Exchange ExchangeConfig `yaml:"exchange"`
	Polling  PollingConfig  `yaml:"polling"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Journal  JournalConfig  `yaml:"journal"`
}

// ExchangeConfig holds the quote source settings.
type ExchangeConfig struct {
	RestURL      string        `yaml:"rest_url" envconfig:"rest_url"`
	Symbols      []string      `yaml:"symbols" envconfig:"symbols"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"timeout"`
	MaxRetries   int           `yaml:"max_retries" envconfig:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff" envconfig:"retry_backoff"`
	Offline      bool          `yaml:"offline" envconfig:"offline"` // serve SampleTickers instead of calling the API
}

// PollingConfig holds the scheduler and freshness clock cadence.
type PollingConfig struct {
	Interval      time.Duration `yaml:"interval" envconfig:"interval"`
	FreshnessTick time.Duration `yaml:"freshness_tick" envconfig:"freshness_tick"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout" envconfig:"fetch_timeout"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"level"`
	Encoding string `yaml:"encoding" envconfig:"encoding"` // json or console
}

type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"shutdown_timeout"`
}

// JournalConfig controls the SQLite fetch journal. It is off unless enabled.
type JournalConfig struct {
	Enabled   bool          `yaml:"enabled" envconfig:"enabled"`
	Path      string        `yaml:"path" envconfig:"path"`
	Retention time.Duration `yaml:"retention" envconfig:"retention"`
}

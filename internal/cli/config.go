package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds environment-driven defaults. Flags take precedence over the
// environment.
type Config struct {
	// JournalPath is the default journal database for replay and trace.
	JournalPath string `env:"VOICEMIRROR_JOURNAL"`
	// LogLevel sets the log level when --verbose is not given
	// (debug, info, warn, error).
	LogLevel string `env:"VOICEMIRROR_LOG_LEVEL" envDefault:"warn"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

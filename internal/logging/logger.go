package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/nyacdn/cdnctl/internal/config"
)

// NewLogger creates a structured zerolog.Logger from the config. The service
// name is attached when set so CLI and mock API output stay distinguishable.
func NewLogger(cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(os.Stdout).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}

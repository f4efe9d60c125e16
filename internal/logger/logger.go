package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. It is safe to call again once the
// config is loaded to adjust the level.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(output).With().Timestamp().Caller().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetLevel switches the global level; unknown values fall back to info.
// In release mode the console writer is replaced with plain JSON lines.
func SetLevel(level string, jsonOutput bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if jsonOutput {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger fields
const (
	PACKAGE    = "pkg"
	FUNC       = "func"
	REQUEST_ID = "request_id"
	USER_ID    = "user_id"
	FAMILY_ID  = "family_id"
	EVENT      = "event"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Setup configures the global logger.
// format is either "json" (default) or "console" for human readable output.
func Setup(level, format string) {
	SetupWriter(level, format, os.Stdout)
}

// SetupWriter is Setup with an explicit destination
func SetupWriter(level, format string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// NewPackageLogger returns a new logger with pkg={name}
func NewPackageLogger(name string) zerolog.Logger {
	return log.With().Str(PACKAGE, name).Logger()
}

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// zlog stays a no-op logger until Init runs, so tests and library callers
// stay quiet.
var zlog = zerolog.Nop()

// Init configures the global logger. Development gets a console writer,
// everything else gets JSON on stdout. Call it once, before serving.
func Init(env string) {
	var w io.Writer
	if env == "development" || env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		w = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "blogcms").
		Logger()
}

func Get() *zerolog.Logger {
	return &zlog
}

func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

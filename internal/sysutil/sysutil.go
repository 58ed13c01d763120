// Package sysutil holds process-level helpers used by the server entrypoint:
// global zerolog setup and small environment string utilities.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogOptions describes the process logger.
type LogOptions struct {
	Level   string // debug|info|warn|error|fatal|panic; anything else is info
	Pretty  bool   // human-readable console output instead of JSON lines
	Service string // stamped on every line when set
	Version string // stamped on every line when set
}

// SetLogLevel sets the global zerolog level. "warning" is accepted for warn;
// blank or unknown values select info. Trace and disabled are not offered.
func SetLogLevel(lvl string) zerolog.Level {
	l := strings.ToLower(strings.TrimSpace(lvl))
	if l == "warning" {
		l = "warn"
	}
	level, err := zerolog.ParseLevel(l)
	if err != nil || l == "" || level < zerolog.DebugLevel || level > zerolog.PanicLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}

// ConfigureLogger replaces the global logger and returns it. Pretty output
// goes through a zerolog.ConsoleWriter with colors off when NO_COLOR is
// truthy. A nil w means stderr.
func ConfigureLogger(w io.Writer, opts LogOptions) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	SetLogLevel(opts.Level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if opts.Pretty {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    IsTruthy(os.Getenv("NO_COLOR")),
		}
	}

	lc := zerolog.New(w).With().Timestamp()
	if opts.Service != "" {
		lc = lc.Str("service", opts.Service)
	}
	if opts.Version != "" {
		lc = lc.Str("version", opts.Version)
	}
	log.Logger = lc.Logger()
	return log.Logger
}

// IsTruthy accepts 1, true, yes, y and on, ignoring case and surrounding
// space.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// FirstNonEmpty returns the first value that is not blank, unchanged.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Package logging configures the process-wide zerolog logger.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide logger. Packages that have no request context use it directly.
var Logger = log.Logger

// Config controls log level and output format.
// Level is one of debug, info, warn, error; Format is json or pretty.
type Config struct {
	Level        string `json:"level,omitempty" yaml:"level,omitempty"`
	Format       string `json:"format,omitempty" yaml:"format,omitempty"`
	TimeFormat   string `json:"time_format,omitempty" yaml:"time_format,omitempty"`
	ReportCaller bool   `json:"report_caller,omitempty" yaml:"report_caller,omitempty"`
}

// Init builds the global logger from config and writes to stderr.
func Init(config Config) {
	InitWithWriter(config, os.Stderr)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(config Config, out io.Writer) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	output := out
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: zerolog.TimeFieldFormat,
		}
	}

	builder := zerolog.New(output).Level(level).With().Timestamp()
	if config.ReportCaller {
		builder = builder.Caller()
	}

	Logger = builder.Logger()
	log.Logger = Logger
	zerolog.DefaultContextLogger = &Logger
}

// Ctx returns the logger attached to ctx, falling back to the global logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// Redact replaces every occurrence of secret in s. Empty secrets leave s unchanged.
func Redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "[REDACTED]")
}

// Truncate cuts s to at most n bytes on a rune boundary and marks the cut with "...".
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

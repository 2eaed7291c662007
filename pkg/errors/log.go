package errors

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogHandler is an ErrorHandler that writes structured records via zerolog.
// The backing logger is resolved lazily so that ConfigureLogger takes effect
// even when called after the default handler is installed.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

var (
	loggerOnce sync.Once
	baseLogger zerolog.Logger
)

// LogConfig captures options for the package-level logger.
type LogConfig struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Output io.Writer // optional writer (defaults to os.Stderr)
}

// ConfigureLogger initialises the package-level zerolog logger exactly once.
// Subsequent calls are no-ops.
func ConfigureLogger(cfg LogConfig) {
	loggerOnce.Do(func() {
		level := zerolog.WarnLevel
		if cfg.Level != "" {
			if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
				level = parsed
			}
		} else if env := os.Getenv("ONBOARDING_LOG_LEVEL"); env != "" {
			if parsed, err := zerolog.ParseLevel(env); err == nil {
				level = parsed
			}
		}
		zerolog.TimeFieldFormat = time.RFC3339

		writer := cfg.Output
		if writer == nil {
			writer = os.Stderr
		}

		baseLogger = zerolog.New(writer).Level(level).With().
			Timestamp().
			Str("component", "onboarding").
			Logger()
	})
}

func logger() zerolog.Logger {
	ConfigureLogger(LogConfig{})
	return baseLogger
}

// NewLogHandler returns a LogHandler backed by the package-level logger.
func NewLogHandler() *LogHandler {
	return &LogHandler{}
}

// HandleError logs an OnboardingError.
func (h *LogHandler) HandleError(err *OnboardingError) {
	if err == nil {
		return
	}
	l := logger()
	ev := l.Warn().
		Str("op", err.Op).
		Str("kind", err.Kind.String())
	if err.Channel != "" {
		ev = ev.Str("channel", err.Channel)
	}
	ev.Err(err.Err).Msg("onboarding error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	l := logger()
	ev := l.Error().
		Str("op", err.Op).
		Interface("value", err.Value)
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("recovered panic")
}

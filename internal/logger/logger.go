// Package logger configures the [slog] logger shared by the commands of this repository.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

const TimeFormat = "2006-01-02 15:04:05.000"

// New returns a [slog.Logger] writing colorized records to w.
// Color is disabled unless w is a terminal.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: TimeFormat,
		AddSource:  true,
		NoColor:    !isTerminal(w),
	}))
}

// Level returns the level for the given verbosity flags. Quiet takes precedence.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Fatal logs msg at error level with attrs and exits with status 1.
func Fatal(l *slog.Logger, msg string, attrs ...any) {
	l.Error(msg, attrs...)
	os.Exit(1)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

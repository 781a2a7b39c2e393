// Package logger configures the process logger.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Logger wraps logrus with colored outcome lines.
type Logger struct {
	*logrus.Logger
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	bold   *color.Color
}

// New creates a logger writing to stderr at level. DEBUG=true in the
// environment forces debug logging.
func New(level string) (*Logger, error) {
	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if os.Getenv("DEBUG") == "true" {
		lvl = logrus.DebugLevel
	}

	l := &Logger{
		Logger: logrus.New(),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		bold:   color.New(color.Bold),
	}
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006/01/02 15:04:05",
		FullTimestamp:   true,
		DisableSorting:  true,
	})
	l.SetLevel(lvl)
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	l, _ := New("panic")
	l.SetOutput(io.Discard)
	return l
}

// IsDebugEnabled returns whether debug logging is enabled.
func (l *Logger) IsDebugEnabled() bool {
	return l.IsLevelEnabled(logrus.DebugLevel)
}

// Outcome writes a one-line colored summary of a finished action to w.
func (l *Logger) Outcome(w io.Writer, description string, err error) {
	switch {
	case err == nil:
		l.green.Fprint(w, "✓ ")
		l.bold.Fprintln(w, description)
	default:
		l.red.Fprint(w, "✗ ")
		l.bold.Fprint(w, description)
		l.yellow.Fprintf(w, ": %v\n", err)
	}
}

package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the printf-style logger shared by every service.
type Logger struct {
	entry *logrus.Entry
}

// New returns a text logger at info level writing to stdout.
func New() *Logger {
	return NewWithOptions("development", "info", os.Stdout)
}

// NewWithOptions builds a logger for the given environment. Production uses
// the JSON formatter; everything else gets full-timestamp text.
func NewWithOptions(env, level string, out io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(out)

	if env == "production" {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)

	return &Logger{entry: logrus.NewEntry(base)}
}

// WithField returns a child logger carrying key=value on every line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

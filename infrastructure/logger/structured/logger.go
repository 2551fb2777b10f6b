// ABOUTME: Structured logger implementation on sirupsen/logrus
// ABOUTME: Supports JSON or text output, level filtering and rotated log files via lumberjack

package structured

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger
type Options struct {
	// Level is debug, info, warn or error. Defaults to info.
	Level string

	// Format is json or text. Defaults to json.
	Format string

	// File, when set, receives a copy of every entry with size-based rotation
	File string

	// Output replaces stdout, used by tests
	Output io.Writer
}

// Logger implements interfaces.Logger on top of logrus
type Logger struct {
	entry *logrus.Logger
	file  *lumberjack.Logger
}

// New creates a logger from the options
func New(opts Options) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(opts.Format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	logger := &Logger{entry: l}
	if opts.File != "" {
		logger.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(out, logger.file)
	}
	l.SetOutput(out)

	return logger
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}

// Close releases the rotated log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Package logging provides simple leveled logging for go-iomp.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger wraps stdlib log with level support.
type Logger struct {
	logger *log.Logger
	level  Level
	mu     sync.Mutex
}

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// Level represents the available log levels. The core's logging
// contract names six: DEBUG, INFO, NOTICE, WARNING, ERROR, FATAL.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelFatal
)

// Config holds logging configuration.
type Config struct {
	Level  Level
	Output io.Writer
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  LevelWarning,
		Output: os.Stderr,
	}
}

// New creates a new logger.
func New(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		logger: log.New(output, "", log.LstdFlags),
		level:  config.Level,
	}
}

// Default returns the default logger, creating it if necessary.
func Default() *Logger {
	mu.RLock()
	if defaultLogger != nil {
		defer mu.RUnlock()
		return defaultLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(nil)
	}
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(logger *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

// SetLevel adjusts the default logger's level and returns the previous one.
func SetLevel(level Level) Level {
	l := Default()
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.level
	l.level = level
	return old
}

func (l *Logger) log(level Level, prefix, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf("%s %s", prefix, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any)  { l.log(LevelDebug, "[DEBUG]", format, args...) }
func (l *Logger) Infof(format string, args ...any)   { l.log(LevelInfo, "[INFO]", format, args...) }
func (l *Logger) Noticef(format string, args ...any) { l.log(LevelNotice, "[NOTICE]", format, args...) }
func (l *Logger) Warningf(format string, args ...any) {
	l.log(LevelWarning, "[WARNING]", format, args...)
}
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, "[ERROR]", format, args...) }
func (l *Logger) Fatalf(format string, args ...any) { l.log(LevelFatal, "[FATAL]", format, args...) }

// Printf is kept for callers that only know about a plain printf-style sink.
func (l *Logger) Printf(format string, args ...any) { l.Infof(format, args...) }

// Timestamp renders the current time as "YYYY-MM-DD HH:MM:SS.uuuuuu",
// the format the logging contract's time-stamp helper produces.
func Timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05.000000")
}

// Global convenience functions against the default logger.
func Debugf(format string, args ...any)   { Default().Debugf(format, args...) }
func Infof(format string, args ...any)    { Default().Infof(format, args...) }
func Noticef(format string, args ...any)  { Default().Noticef(format, args...) }
func Warningf(format string, args ...any) { Default().Warningf(format, args...) }
func Errorf(format string, args ...any)   { Default().Errorf(format, args...) }
func Fatalf(format string, args ...any)   { Default().Fatalf(format, args...) }

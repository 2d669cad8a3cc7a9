package crawler

import (
	"fmt"

	"ctonews/log"
)

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type ZeroLogger struct {
	Logger log.Logger
}

func (l *ZeroLogger) Info(format string, args ...any) {
	l.Logger.Info().Msgf(format, args...)
}

func (l *ZeroLogger) Warn(format string, args ...any) {
	l.Logger.Warn().Msgf(format, args...)
}

func (l *ZeroLogger) Error(format string, args ...any) {
	l.Logger.Error().Msgf(format, args...)
}

type DummyLogger struct {
	entries []logEntry
}

type logLevel int

const (
	logLevelInfo logLevel = iota
	logLevelWarn
	logLevelError
)

type logEntry struct {
	Level  logLevel
	Format string
	Args   []any
}

func NewDummyLogger() *DummyLogger {
	return &DummyLogger{
		entries: nil,
	}
}

func (l *DummyLogger) Info(format string, args ...any) {
	l.entries = append(l.entries, logEntry{logLevelInfo, format, args})
}

func (l *DummyLogger) Warn(format string, args ...any) {
	l.entries = append(l.entries, logEntry{logLevelWarn, format, args})
}

func (l *DummyLogger) Error(format string, args ...any) {
	l.entries = append(l.entries, logEntry{logLevelError, format, args})
}

func (l *DummyLogger) Replay(target Logger) {
	for _, entry := range l.entries {
		switch entry.Level {
		case logLevelInfo:
			target.Info(entry.Format, entry.Args...)
		case logLevelWarn:
			target.Warn(entry.Format, entry.Args...)
		case logLevelError:
			target.Error(entry.Format, entry.Args...)
		}
	}
}

func (l *DummyLogger) String() string {
	result := ""
	for _, entry := range l.entries {
		result += fmt.Sprintf(entry.Format, entry.Args...) + "\n"
	}
	return result
}

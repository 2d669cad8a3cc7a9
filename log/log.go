// Wraps zerolog, ensuring the timestamp goes in the beginning and stacks get
// marshaled from pkg/errors.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"ctonews/config"
)

var base zerolog.Logger

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.DurationFieldInteger = true
	zerolog.TimeFieldFormat = time.RFC3339Nano

	// Human-readable output locally, raw JSON in production.
	var out io.Writer = os.Stderr
	if config.Cfg.Env.IsDevOrTest() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly} //nolint:exhaustruct
	}
	base = zerolog.New(out).With().Stack().Logger()
}

// Logger is what the rest of the codebase depends on, so that request-scoped
// and task-scoped loggers can add their own fields to every event.
type Logger interface {
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
}

func Info() *zerolog.Event {
	return base.Info().Timestamp()
}

func Warn() *zerolog.Event {
	return base.Warn().Timestamp()
}

func Error() *zerolog.Event {
	return base.Error().Timestamp()
}

// BackgroundLogger tags events from code that runs outside of a request or a
// named task.
type BackgroundLogger struct{}

func (l *BackgroundLogger) Info() *zerolog.Event {
	return Info().Str("source", "background")
}

func (l *BackgroundLogger) Warn() *zerolog.Event {
	return Warn().Str("source", "background")
}

func (l *BackgroundLogger) Error() *zerolog.Event {
	return Error().Str("source", "background")
}

// TaskLogger tags events with the background task name and run id.
type TaskLogger struct {
	TaskName string
	RunId    string
}

func (l *TaskLogger) Info() *zerolog.Event {
	return Info().Str("task", l.TaskName).Str("run_id", l.RunId)
}

func (l *TaskLogger) Warn() *zerolog.Event {
	return Warn().Str("task", l.TaskName).Str("run_id", l.RunId)
}

func (l *TaskLogger) Error() *zerolog.Event {
	return Error().Str("task", l.TaskName).Str("run_id", l.RunId)
}

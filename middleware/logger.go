package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mileusna/useragent"
	"github.com/rs/zerolog"

	"ctonews/log"
)

// Logger should come before Recoverer.
func Logger(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		t1 := time.Now()

		path := r.URL.Path
		if r.URL.RawQuery != "" {
			path += "?" + r.URL.RawQuery
		}

		requestId := r.Header.Get("X-Request-ID")
		if requestId == "" {
			requestId = uuid.New().String()
		}
		logger := &WebLogger{RequestId: requestId}

		commonFields := func(event *zerolog.Event) {
			event.
				Str("method", r.Method).
				Str("path", path)
		}

		ua := useragent.Parse(r.UserAgent())
		logger.Info().
			Func(commonFields).
			Str("ip", userIp(r)).
			Str("browser", ua.Name).
			Str("os", ua.OS).
			Bool("bot", ua.Bot).
			Msg("started")

		r = withLogger(r, logger)

		defer func() {
			status := ww.Status()
			event := logger.Info()
			if status/100 == 5 {
				event = logger.Error()
			}
			event.
				Func(commonFields).
				Int("status", status).
				TimeDiff("duration", time.Now(), t1).
				Msg("completed")
		}()
		next.ServeHTTP(ww, r)
	}
	return http.HandlerFunc(fn)
}

func userIp(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}

type loggerKeyType struct{}

var loggerKey = &loggerKeyType{}

func withLogger(r *http.Request, logger *WebLogger) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), loggerKey, logger))
}

func GetLogger(r *http.Request) *WebLogger {
	return r.Context().Value(loggerKey).(*WebLogger)
}

type WebLogger struct {
	RequestId string
}

func (l *WebLogger) Info() *zerolog.Event {
	return log.Info().Str("request_id", l.RequestId)
}

func (l *WebLogger) Warn() *zerolog.Event {
	return log.Warn().Str("request_id", l.RequestId)
}

func (l *WebLogger) Error() *zerolog.Event {
	return log.Error().Str("request_id", l.RequestId)
}

package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
)

// Logger logs one line per request with its status and response size.
// 5xx responses log at error level and 4xx at warn.
func Logger(logger *slog.Logger) Func {
	format := func(_ io.Writer, p handlers.LogFormatterParams) {
		level := slog.LevelInfo
		switch {
		case p.StatusCode >= http.StatusInternalServerError:
			level = slog.LevelError
		case p.StatusCode >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		logger.Log(p.Request.Context(), level, "request",
			"method", p.Request.Method,
			"uri", p.URL.RequestURI(),
			"status", p.StatusCode,
			"bytes", p.Size,
			"addr", p.Request.RemoteAddr,
			"duration", time.Since(p.TimeStamp),
		)
	}

	return func(next http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, next, format)
	}
}

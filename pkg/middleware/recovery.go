package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
)

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(args ...any) {
	l.logger.Error("panic recovered", "error", fmt.Sprint(args...))
}

// Recovery returns middleware that converts handler panics into 500 responses
// and logs the recovered value.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		handlers.PrintRecoveryStack(false),
	)
}

// Compress returns middleware that gzip or deflate encodes responses when the
// client accepts it.
func Compress() func(http.Handler) http.Handler {
	return handlers.CompressHandler
}

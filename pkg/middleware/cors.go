package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS applies cfg's cross-origin policy. It passes requests through
// untouched when disabled or when no origin is configured.
func CORS(cfg *CORSConfig) Func {
	if !cfg.Enabled || len(cfg.Origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.Origins),
		handlers.AllowedMethods(cfg.AllowedMethods),
		handlers.AllowedHeaders(cfg.AllowedHeaders),
		handlers.MaxAge(cfg.MaxAge),
	}
	if cfg.AllowCredentials {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)
}

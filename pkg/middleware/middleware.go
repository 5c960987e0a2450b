// Package middleware holds the HTTP middleware shared by the service's
// modules and the stack that orders them.
package middleware

import (
	"net/http"
	"slices"
)

// Func wraps a handler with cross-cutting behavior.
type Func = func(http.Handler) http.Handler

// System is an ordered middleware stack. The first Func added runs
// outermost.
type System interface {
	Use(fns ...Func)
	Apply(handler http.Handler) http.Handler
}

type stack []Func

// New creates an empty System.
func New() System {
	return &stack{}
}

func (s *stack) Use(fns ...Func) {
	*s = append(*s, fns...)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for _, fn := range slices.Backward(*s) {
		handler = fn(handler)
	}
	return handler
}

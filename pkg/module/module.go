// Package module mounts self-contained HTTP sub-applications under
// single-segment path prefixes such as /api and /mcp.
package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/coderman400/AIArchitect/pkg/middleware"
)

// Module strips its prefix from incoming paths and hands the request to
// its router through the module's own middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// New creates a Module for prefix, which must be one segment with a
// leading slash. It panics otherwise since prefixes are fixed at startup.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Use appends middleware. It must be called before the first request;
// the stack is assembled once when the module first serves.
func (m *Module) Use(fns ...middleware.Func) {
	m.middleware.Use(fns...)
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Handler returns the router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.router)
	})
	return m.handler
}

// Serve dispatches req with the module prefix removed from its path.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, withPath(req, m.relative(req.URL.Path)))
}

func (m *Module) relative(path string) string {
	rest := strings.TrimPrefix(path, m.prefix)
	if rest == "" {
		return "/"
	}
	return rest
}

// withPath returns a shallow copy of req addressed to path.
func withPath(req *http.Request, path string) *http.Request {
	r := req.Clone(req.Context())
	r.URL.Path = path
	r.URL.RawPath = ""
	return r
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1 || len(prefix) == 1:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}

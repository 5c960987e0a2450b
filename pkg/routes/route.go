// Package routes declares a domain's HTTP endpoints as data so each
// handler can publish its routes and the API module can register them.
package routes

import "net/http"

// Route binds a method and path pattern to a handler. An empty Method
// matches every method.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

func (r Route) pattern(prefix string) string {
	path := prefix + r.Pattern
	if path == "" {
		path = "/"
	}
	if r.Method == "" {
		return path
	}
	return r.Method + " " + path
}

package http

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// HandlerFunc receives the capture groups of the matched route, in order.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, params []string)

// Route describes one entry of the dispatch table. Exactly one of Path and
// Pattern is set. Pattern must be anchored.
type Route struct {
	Method       string
	Path         string
	Pattern      *regexp.Regexp
	RequireAdmin bool
	Handler      HandlerFunc
}

func (rt Route) match(path string) ([]string, bool) {
	if rt.Pattern == nil {
		return nil, rt.Path == path
	}
	m := rt.Pattern.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// Dispatcher walks its routes in order and runs the first one whose method
// and path match. Admin routes pass through the admin guard first.
type Dispatcher struct {
	routes []Route
	guard  *Guard
}

func NewDispatcher(guard *Guard, routes []Route) *Dispatcher {
	return &Dispatcher{routes: routes, guard: guard}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	path := NormalizePath(r.URL.EscapedPath())
	for _, rt := range d.routes {
		if rt.Method != r.Method {
			continue
		}
		params, ok := rt.match(path)
		if !ok {
			continue
		}
		if rt.RequireAdmin {
			if _, ok := d.guard.RequireAdmin(w, r); !ok {
				return
			}
		}
		rt.Handler(w, r, params)
		return
	}

	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
}

// NormalizePath decodes percent escapes, strips trailing slashes and
// guarantees a leading slash. The empty path becomes "/".
func NormalizePath(escaped string) string {
	p := escaped
	if decoded, err := url.PathUnescape(escaped); err == nil {
		p = decoded
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

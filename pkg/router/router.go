package router

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

// Router is a small method+path dispatcher with wildcard segments and
// colored request logging.
type Router struct {
	mux    *http.ServeMux
	routes map[string]HandlerFunc // key = METHOD:PATH
	paths  map[string]bool
}

func New() *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
	}
	r.mux.HandleFunc("/", r.serve)
	return r
}

func (r *Router) serve(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	if h := r.lookup(req.Method, req.URL.Path); h != nil {
		h(lrw, req)
	} else if r.paths[req.URL.Path] {
		http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
	} else {
		http.Error(lrw, "Not Found", http.StatusNotFound)
	}

	log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s",
		colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
		methodColor(req.Method), req.Method, colorReset,
		req.URL.Path,
		statusColor(lrw.statusCode), lrw.statusCode, colorReset,
		colorBlue, time.Since(start), colorReset,
	)
}

// lookup finds an exact route first, then the most specific matching
// wildcard route. Overlapping patterns like /analyses/* and /analyses/*/logs
// must resolve deterministically.
func (r *Router) lookup(method, path string) HandlerFunc {
	if h, ok := r.routes[method+":"+path]; ok {
		return h
	}
	best := ""
	bestScore := -1
	for pattern := range r.paths {
		if !strings.Contains(pattern, "/*") || !matchWildcard(path, pattern) {
			continue
		}
		if _, ok := r.routes[method+":"+pattern]; !ok {
			continue
		}
		if score := patternScore(pattern); score > bestScore {
			bestScore = score
			best = pattern
		}
	}
	if best == "" {
		return nil
	}
	return r.routes[method+":"+best]
}

// patternScore ranks overlapping wildcard patterns: more segments beat
// fewer, literal segments beat wildcards.
func patternScore(pattern string) int {
	segs := strings.Split(strings.Trim(pattern, "/"), "/")
	score := len(segs) * 2
	for _, s := range segs {
		if s != "*" {
			score++
		}
	}
	return score
}

// matchWildcard checks a request path against a route pattern where "*"
// matches one segment, or any remaining segments when it is the last one.
func matchWildcard(requestPath, pattern string) bool {
	reqSegs := strings.Split(strings.Trim(requestPath, "/"), "/")
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")

	// trailing wildcard swallows the rest of the path
	if patSegs[len(patSegs)-1] == "*" {
		if len(reqSegs) < len(patSegs)-1 {
			return false
		}
		for i := 0; i < len(patSegs)-1; i++ {
			if patSegs[i] != "*" && reqSegs[i] != patSegs[i] {
				return false
			}
		}
		return true
	}

	if len(reqSegs) != len(patSegs) {
		return false
	}
	for i, seg := range patSegs {
		if seg != "*" && reqSegs[i] != seg {
			return false
		}
	}
	return true
}

func (r *Router) register(method, path string, handler HandlerFunc) {
	r.routes[method+":"+path] = handler
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)   { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc)  { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)   { r.register(http.MethodPut, path, handler) }
func (r *Router) PATCH(path string, handler HandlerFunc) { r.register(http.MethodPatch, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Getter methods for testing
func (r *Router) Routes() map[string]HandlerFunc { return r.routes }
func (r *Router) Paths() map[string]bool         { return r.paths }

// Start runs the HTTP server; it only returns on failure.
func (r *Router) Start(addr string) error {
	log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
	return http.ListenAndServe(addr, r.mux)
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	case http.MethodPut, http.MethodPatch:
		return colorYellow
	case http.MethodDelete:
		return colorRed
	default:
		return colorCyan
	}
}

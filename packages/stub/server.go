package stub

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Recorded is one request received by the server.
type Recorded struct {
	ID       string
	Method   string
	Path     string
	RawQuery string
	Headers  map[string]string
	Body     []byte
	Matched  bool
	Received time.Time
}

// BodyString returns the body as a string.
func (r Recorded) BodyString() string {
	return string(r.Body)
}

// Server is a recording stub of a third-party HTTP API.
type Server struct {
	router chi.Router
	srv    *httptest.Server
	delay  time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	routes   []*Route
	requests []Recorded
}

// Option is a functional option for Server
type Option func(*Server)

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a stub server. It does not listen until Start.
func NewServer(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	s.router = r
	return s
}

// Route registers reply for method and pattern. Patterns use chi syntax.
func (s *Server) Route(method, pattern string, reply Reply) *Server {
	route := &Route{
		Method:  strings.ToUpper(method),
		Pattern: normalizePattern(pattern),
		Reply:   reply.withDefaults(),
	}

	s.mu.Lock()
	s.routes = append(s.routes, route)
	s.mu.Unlock()

	s.router.MethodFunc(route.Method, route.Pattern, func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, route)
	})
	return s
}

// Start listens on a loopback port and returns the base URL.
func (s *Server) Start() string {
	if s.srv == nil {
		s.srv = httptest.NewServer(s.router)
		s.logger.Debug("stub server started", "url", s.srv.URL, "routes", len(s.Routes()))
	}
	return s.srv.URL
}

// URL returns the base URL, or "" before Start.
func (s *Server) URL() string {
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

func (s *Server) Close() {
	if s.srv != nil {
		s.srv.Close()
		s.srv = nil
	}
}

// Handler returns the server's router for use without a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Routes returns all registered routes
func (s *Server) Routes() []*Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Route(nil), s.routes...)
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Last returns the most recent request.
func (s *Server) Last() (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset forgets recorded requests. Routes are kept.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	matched bool
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		headers := make(map[string]string, len(r.Header))
		for key, values := range r.Header {
			if len(values) > 0 {
				headers[key] = values[0]
			}
		}

		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(sw, r)

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			ID:       id,
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Headers:  headers,
			Body:     body,
			Matched:  sw.matched,
			Received: start,
		})
		s.mu.Unlock()

		s.logger.Debug("stub request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start))
	})
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, route *Route) {
	if sw, ok := w.(*statusWriter); ok {
		sw.matched = true
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	params := make(map[string]string)
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			params[key] = rctx.URLParams.Values[i]
		}
	}

	reply := route.Reply
	for key, value := range reply.Headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", reply.ContentType)
	w.WriteHeader(reply.StatusCode)
	w.Write([]byte(resolveParams(reply.Body, params)))
}

// Package mock serves recorded examples as a fake API.
//
// Every documented method and path becomes a route that replays the first
// response captured for it. Path tokens (:id) match any segment.
package mock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
)

// Server is a mock HTTP server built from example views.
type Server struct {
	router  *Router
	port    int
	delay   time.Duration
	verbose bool
	logger  *log.Logger
}

// Option is a functional option for Server
type Option func(*Server)

func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose logs every request
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		router: NewRouter(),
		port:   3000,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadViews adds a route for every view with a method, a path and at least
// one captured request. Later views for an existing route are ignored.
func (s *Server) LoadViews(views []*document.View) {
	for _, v := range views {
		if v.Method == "" || v.Path == "" || len(v.Transcripts) == 0 {
			continue
		}
		if s.router.Has(v.Method, v.Path) {
			continue
		}
		s.router.AddRoute(&Route{
			Method:      strings.ToUpper(v.Method),
			PathPattern: normalizePath(v.Path),
			PathRegex:   pathRegex(normalizePath(v.Path)),
			Name:        v.Description,
			Response:    responseFromView(v),
		})
	}
}

func responseFromView(v *document.View) *MockResponse {
	tr := v.Transcripts[0]
	resp := &MockResponse{
		StatusCode: tr.ResponseStatus,
		Headers:    parseHeaders(tr.ResponseHeaders),
	}
	if tr.ResponseBody != nil {
		resp.Body = *tr.ResponseBody
	}
	// The recorded length belongs to the original body, not the replayed one.
	delete(resp.Headers, "Content-Length")
	return resp
}

// parseHeaders reads rendered "Name: value" lines. Repeated names keep the
// last value.
func parseHeaders(rendered string) map[string]string {
	headers := make(map[string]string)
	for _, line := range strings.Split(rendered, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[http.CanonicalHeaderKey(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return headers
}

// Handler returns the server's request handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRequest)
	return mux
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("Mock server starting on http://localhost:%d", s.port)
	s.logger.Printf("Routes loaded: %d", len(s.router.routes))
	if s.verbose {
		for _, route := range s.router.routes {
			s.logger.Printf("  %s %s -> %d", route.Method, route.PathPattern, route.Response.StatusCode)
		}
	}

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	route, _ := s.router.Match(r.Method, r.URL.Path)
	if route == nil {
		if s.verbose {
			s.logger.Printf("%s %s -> 404 Not Found (%s)", r.Method, r.URL.Path, time.Since(start))
		}
		http.NotFound(w, r)
		return
	}

	resp := route.Response
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))

	if s.verbose {
		s.logger.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, resp.StatusCode, time.Since(start))
	}
}

// Routes returns all registered routes
func (s *Server) Routes() []*Route {
	return s.router.routes
}

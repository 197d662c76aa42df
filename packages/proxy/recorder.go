// Package proxy provides a reverse proxy that records the traffic passing
// through it as example views.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/hitdoc/packages/capture"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	hhttp "github.com/abdul-hamid-achik/hitdoc/packages/http"
	"github.com/google/uuid"
)

// Filtered replaces the value of sanitized headers.
const Filtered = "[FILTERED]"

type recordingKey struct{}

type recording struct {
	start   time.Time
	request *hhttp.Request
}

// Recorder is an HTTP proxy that records requests. Exchanges with the same
// method and path are grouped into one view.
type Recorder struct {
	port        int
	target      *url.URL
	verbose     bool
	exclude     []string
	sanitize    []string
	deduplicate bool
	logger      *log.Logger

	mu    sync.Mutex
	views []*document.View
	byKey map[string]*document.View
}

// Option is a functional option for Recorder
type Option func(*Recorder)

// WithPort sets the proxy port
func WithPort(port int) Option {
	return func(r *Recorder) {
		r.port = port
	}
}

// WithVerbose enables verbose logging
func WithVerbose(verbose bool) Option {
	return func(r *Recorder) {
		r.verbose = verbose
	}
}

// WithExclude sets path prefixes that are proxied but not recorded.
func WithExclude(paths []string) Option {
	return func(r *Recorder) {
		r.exclude = paths
	}
}

// WithSanitize replaces the default list of redacted headers.
func WithSanitize(headers []string) Option {
	return func(r *Recorder) {
		r.sanitize = headers
	}
}

// WithDeduplicate keeps only the first exchange per method and path.
func WithDeduplicate(enabled bool) Option {
	return func(r *Recorder) {
		r.deduplicate = enabled
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Recorder) {
		r.logger = l
	}
}

// NewRecorder creates a recording proxy in front of targetURL.
func NewRecorder(targetURL string, opts ...Option) (*Recorder, error) {
	if targetURL == "" {
		return nil, fmt.Errorf("target URL is required")
	}
	target, err := url.Parse(targetURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid target URL: %q", targetURL)
	}

	r := &Recorder{
		port:     8080,
		target:   target,
		sanitize: []string{"Authorization", "Cookie", "Set-Cookie", "X-Api-Key", "Api-Key"},
		logger:   log.Default(),
		byKey:    make(map[string]*document.View),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Handler returns the proxying handler.
func (r *Recorder) Handler() http.Handler {
	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = r.target.Scheme
			req.URL.Host = r.target.Host
			req.Host = r.target.Host
		},
		ModifyResponse: r.recordResponse,
	}
	return r.wrap(proxy)
}

// Start serves until ctx is done.
func (r *Recorder) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", r.port),
		Handler: r.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	r.logger.Printf("Recording proxy starting on http://localhost:%d", r.port)
	r.logger.Printf("Proxying to: %s", r.target)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Recorder) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.shouldExclude(req.URL.Path) {
			if r.verbose {
				r.logger.Printf("Excluded: %s %s", req.Method, req.URL.Path)
			}
			next.ServeHTTP(w, req)
			return
		}

		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		rec := &recording{
			start: time.Now(),
			request: &hhttp.Request{
				Method:  req.Method,
				Route:   req.URL.RequestURI(),
				Headers: r.requestHeaders(req.Header),
				Body:    body,
			},
		}
		ctx := context.WithValue(req.Context(), recordingKey{}, rec)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func (r *Recorder) recordResponse(resp *http.Response) error {
	rec, ok := resp.Request.Context().Value(recordingKey{}).(*recording)
	if !ok {
		return nil
	}

	var body []byte
	if resp.Body != nil {
		var err error
		body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	recorded := &hhttp.Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    r.responseHeaders(resp.Header),
		Body:       body,
		Duration:   time.Since(rec.start),
	}
	r.add(rec.request, recorded)

	if r.verbose {
		r.logger.Printf("Recorded: %s %s -> %d (%dms)", rec.request.Method, rec.request.Path(), resp.StatusCode, recorded.DurationMs())
	}
	return nil
}

func (r *Recorder) add(req *hhttp.Request, resp *hhttp.Response) {
	path := req.Path()
	key := req.Method + " " + path

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byKey[key]
	if !ok {
		v = &document.View{
			ID:           uuid.NewString(),
			ResourceName: resourceName(path),
			Description:  key,
			Method:       req.Method,
			Path:         path,
			Document:     document.FlagOn(),
		}
		r.byKey[key] = v
		r.views = append(r.views, v)
	} else if r.deduplicate {
		if r.verbose {
			r.logger.Printf("Skipped duplicate: %s", key)
		}
		return
	}
	v.Transcripts = append(v.Transcripts, capture.NewTranscript(req, resp))
}

// resourceName is the capitalised first path segment.
func resourceName(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if segment == "" {
		return "Root"
	}
	return strings.ToUpper(segment[:1]) + segment[1:]
}

func (r *Recorder) shouldExclude(path string) bool {
	for _, exclude := range r.exclude {
		if exclude != "" && strings.HasPrefix(path, exclude) {
			return true
		}
	}
	return false
}

func (r *Recorder) redacted(name string) bool {
	for _, s := range r.sanitize {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

func (r *Recorder) requestHeaders(h http.Header) []hhttp.Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make([]hhttp.Header, 0, len(names))
	for _, name := range names {
		value := strings.Join(h.Values(name), ", ")
		if r.redacted(name) {
			value = Filtered
		}
		headers = append(headers, hhttp.Header{Name: name, Value: value})
	}
	return headers
}

func (r *Recorder) responseHeaders(h http.Header) http.Header {
	out := h.Clone()
	for name := range out {
		if r.redacted(name) {
			out.Set(name, Filtered)
		}
	}
	return out
}

// Views returns the recorded views in arrival order.
func (r *Recorder) Views() []*document.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*document.View, len(r.views))
	for i, v := range r.views {
		c := *v
		c.Transcripts = append([]capture.Transcript(nil), v.Transcripts...)
		out[i] = &c
	}
	return out
}

// Clear drops all recordings.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = nil
	r.byKey = make(map[string]*document.View)
}

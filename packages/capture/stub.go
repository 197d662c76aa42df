package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"sort"
	"strconv"

	hhttp "github.com/abdul-hamid-achik/hitdoc/packages/http"
)

// ErrUnstubbedRequest is returned for requests that match no stub and have no
// fallback transport.
var ErrUnstubbedRequest = errors.New("unstubbed request")

// CallbackStub is an http.RoundTripper that serves requests to one callback
// URL through a destination handler, in-process, and records a transcript of
// each. Any method matches.
type CallbackStub struct {
	target      *url.URL
	destination nethttp.Handler
	sink        Sink
	fallback    nethttp.RoundTripper
}

type StubOption func(*CallbackStub)

// WithFallback sends requests that do not match the callback URL to rt.
func WithFallback(rt nethttp.RoundTripper) StubOption {
	return func(s *CallbackStub) {
		s.fallback = rt
	}
}

// AcknowledgeHandler answers every request with an empty 200 response.
func AcknowledgeHandler() nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
	})
}

// NewCallbackStub stubs callbackURL. A nil destination acknowledges every
// request.
func NewCallbackStub(callbackURL string, destination nethttp.Handler, sink Sink, opts ...StubOption) (*CallbackStub, error) {
	target, err := url.Parse(callbackURL)
	if err != nil {
		return nil, fmt.Errorf("invalid callback URL: %w", err)
	}
	if target.Host == "" {
		return nil, fmt.Errorf("invalid callback URL %q: missing host", callbackURL)
	}
	if destination == nil {
		destination = AcknowledgeHandler()
	}
	s := &CallbackStub{
		target:      target,
		destination: destination,
		sink:        sink,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Client returns an http.Client whose requests go through the stub.
func (s *CallbackStub) Client() *nethttp.Client {
	return &nethttp.Client{Transport: s}
}

// Matches reports whether u addresses the callback URL, ignoring the query.
func (s *CallbackStub) Matches(u *url.URL) bool {
	return u.Scheme == s.target.Scheme &&
		u.Host == s.target.Host &&
		normalizePath(u.Path) == normalizePath(s.target.Path)
}

func (s *CallbackStub) RoundTrip(r *nethttp.Request) (*nethttp.Response, error) {
	if !s.Matches(r.URL) {
		if s.fallback != nil {
			return s.fallback.RoundTrip(r)
		}
		return nil, fmt.Errorf("%w: %s %s", ErrUnstubbedRequest, r.Method, r.URL)
	}

	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			return nil, err
		}
		body = data
	}

	route := r.URL.RequestURI()
	req := hhttp.NewRequest(r.Method, route).SetBody(body)
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range r.Header[name] {
			req.Headers = append(req.Headers, hhttp.Header{Name: name, Value: v})
		}
	}
	req.SetHeader("Host", r.URL.Host)

	resp, err := hhttp.NewHandlerTransport(s.destination, r.URL.Host).Send(r.Context(), req)
	if err != nil {
		return nil, err
	}
	if s.sink != nil {
		s.sink.AppendTranscript(NewTranscript(req, resp))
	}

	return &nethttp.Response{
		Status:        resp.Status,
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        resp.Headers,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: contentLength(resp),
		Request:       r,
	}, nil
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func contentLength(resp *hhttp.Response) int64 {
	if n, err := strconv.ParseInt(resp.Header("Content-Length"), 10, 64); err == nil {
		return n
	}
	return int64(len(resp.Body))
}

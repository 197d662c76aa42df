package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"
)

// DefaultHost is the host in-process requests are addressed to.
const DefaultHost = "example.org"

// Transport performs one synchronous request/response exchange.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
	// Host is the host name requests are addressed to.
	Host() string
}

// HandlerTransport serves requests in-process through an http.Handler.
type HandlerTransport struct {
	handler http.Handler
	host    string
}

func NewHandlerTransport(handler http.Handler, host string) *HandlerTransport {
	if host == "" {
		host = DefaultHost
	}
	return &HandlerTransport{handler: handler, host: host}
}

func (t *HandlerTransport) Host() string {
	return t.host
}

func (t *HandlerTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, "http://"+t.host+req.Route, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	httpReq.RequestURI = req.Route
	httpReq.RemoteAddr = "127.0.0.1:0"
	applyHeaders(httpReq, req.Headers)

	start := time.Now()
	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, httpReq)
	duration := time.Since(start)

	result := rec.Result()
	defer result.Body.Close()

	body := rec.Body.Bytes()
	headers := result.Header.Clone()
	if headers.Get("Content-Length") == "" && headers.Get("Transfer-Encoding") == "" {
		headers.Set("Content-Length", strconv.Itoa(len(body)))
	}

	return &Response{
		StatusCode: result.StatusCode,
		Status:     result.Status,
		Headers:    headers,
		Body:       body,
		Duration:   duration,
	}, nil
}

func applyHeaders(httpReq *http.Request, headers []Header) {
	for _, h := range headers {
		switch {
		case strings.EqualFold(h.Name, "Host"):
			httpReq.Host = h.Value
		case strings.EqualFold(h.Name, "Cookie") && h.Value == "":
		default:
			httpReq.Header.Add(h.Name, h.Value)
		}
	}
}

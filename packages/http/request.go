package http

import (
	"strings"
)

// Header is a single request header. Requests keep headers as an ordered
// list so transcripts can render them in the order they were set.
type Header struct {
	Name  string
	Value string
}

type Request struct {
	Method  string
	Route   string // path plus optional query string
	Headers []Header
	Body    []byte
}

func NewRequest(method, route string) *Request {
	return &Request{
		Method: method,
		Route:  route,
	}
}

// SetHeader replaces the first header named key, or appends a new one.
func (r *Request) SetHeader(key, value string) *Request {
	for i, h := range r.Headers {
		if strings.EqualFold(h.Name, key) {
			r.Headers[i].Value = value
			return r
		}
	}
	r.Headers = append(r.Headers, Header{Name: key, Value: value})
	return r
}

func (r *Request) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, key) {
			return h.Value
		}
	}
	return ""
}

func (r *Request) HasHeader(key string) bool {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, key) {
			return true
		}
	}
	return false
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}

// Path returns the route without its query string.
func (r *Request) Path() string {
	path, _, _ := strings.Cut(r.Route, "?")
	return path
}

// RawQuery returns the query component of the route.
func (r *Request) RawQuery() string {
	_, query, _ := strings.Cut(r.Route, "?")
	return query
}

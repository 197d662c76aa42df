// Package http provides the transports a capture client sends requests through.
//
// Two transports are available:
//   - HandlerTransport serves requests in-process through an http.Handler
//   - Client sends requests over the network to a base URL
//
// Both perform exactly one synchronous exchange per Send call and return the
// status, headers and fully read body.
package http

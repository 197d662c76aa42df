// Package capture records documented HTTP exchanges.
//
// A Client wraps a transport and keeps rack-test style session state: default
// and session headers, a cookie jar and the last request and response. Every
// exchange is normalised into a Transcript and appended to a Sink, normally the
// metadata of the example being executed.
//
// Transcripts render headers as "Name: value" lines, query parameters as
// "key: value" lines and bodies as indented JSON, key=value lines for form
// bodies, or null when there is no body.
//
// CallbackStub intercepts outbound requests to a callback URL and serves them
// in-process, recording a transcript through the same normalisation.
package capture

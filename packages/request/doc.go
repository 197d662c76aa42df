// Package request turns declared parameters, live values and a path template
// into a concrete request.
//
// Parameters whose names appear as :name tokens in the path template are
// substituted into the path and never sent in the body or query string.
// Scoped parameters are nested one level under their scope key. GET requests
// carry parameters in the query string; other methods send them as a body.
package request

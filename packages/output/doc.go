// Package output writes example records and the documentation built from them.
//
// Supported formats:
//   - Records: the JSON file a run leaves behind, one entry per example
//   - JSON and YAML: the documentation index
//   - HTML: a single-page API reference
//   - OpenAPI: an OpenAPI 3 document derived from the captured requests
//   - TAP: one line per example, for CI logs
//   - Console: a colored summary for terminals
//
// Every documentation format implements Formatter and consumes an Index.
package output

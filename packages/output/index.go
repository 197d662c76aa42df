package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
)

// Index is the documentation of a run: the documented examples grouped by
// resource.
type Index struct {
	Title      string             `json:"title" yaml:"title"`
	APIVersion string             `json:"api_version" yaml:"api_version"`
	Sections   []document.Section `json:"sections" yaml:"sections"`
}

// NewIndex keeps the views that pass f and groups them into sections.
func NewIndex(title, apiVersion string, views []*document.View, f document.Filters) *Index {
	sections := document.Sections(document.Documented(views, f))
	if sections == nil {
		sections = []document.Section{}
	}
	return &Index{Title: title, APIVersion: apiVersion, Sections: sections}
}

// Examples returns every example of the index in section order.
func (idx *Index) Examples() []*document.View {
	var out []*document.View
	for _, s := range idx.Sections {
		out = append(out, s.Examples...)
	}
	return out
}

// Formatter renders an Index.
type Formatter interface {
	Format(idx *Index) error
}

// Formats lists the names accepted by NewFormatter.
var Formats = []string{"json", "yaml", "html", "openapi", "tap"}

// NewFormatter returns the formatter called name writing to w.
func NewFormatter(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "yaml", "yml":
		return NewYAMLFormatter(YAMLWithWriter(w)), nil
	case "html":
		return NewHTMLFormatter(HTMLWithWriter(w)), nil
	case "openapi":
		return NewOpenAPIFormatter(OpenAPIWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown format %q (supported: %s)", name, strings.Join(Formats, ", "))
	}
}

// Extension returns the file extension used for format name.
func Extension(name string) string {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return ".yaml"
	case "html":
		return ".html"
	case "openapi":
		return ".openapi.json"
	case "tap":
		return ".tap"
	default:
		return ".json"
	}
}

package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
)

// TAPFormatter lists examples in TAP (Test Anything Protocol) format.
// Examples that received a server error are reported as not ok.
type TAPFormatter struct {
	writer io.Writer
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{writer: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) Format(idx *Index) error {
	return f.FormatViews(idx.Examples())
}

// FormatViews lists views in the given order. Pending views are skipped.
func (f *TAPFormatter) FormatViews(views []*document.View) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", len(views))

	for i, v := range views {
		n := i + 1
		name := tapName(v)
		if v.Pending {
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP pending\n", n, name)
			continue
		}

		var failures []string
		for _, tr := range v.Requests() {
			if tr.ResponseStatus >= 500 {
				failures = append(failures, fmt.Sprintf("%s %s: %d %s", tr.Method, tr.Route, tr.ResponseStatus, tr.ResponseStatusText))
			}
		}
		if len(failures) == 0 {
			fmt.Fprintf(f.writer, "ok %d - %s\n", n, name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", n, name)
		fmt.Fprintf(f.writer, "  ---\n")
		fmt.Fprintf(f.writer, "  failures:\n")
		for _, msg := range failures {
			fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(msg))
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	fmt.Fprintln(f.writer)
	return nil
}

func tapName(v *document.View) string {
	if v.ResourceName == "" {
		return v.Description
	}
	return v.ResourceName + ": " + v.Description
}

func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/fatih/color"
)

// ConsoleFormatter prints a colored summary of an index.
type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithVerbose also prints every captured request.
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) Format(idx *Index) error {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if idx.Title != "" {
		fmt.Fprintf(f.writer, "\n%s %s\n", bold(idx.Title), idx.APIVersion)
	}
	fmt.Fprintf(f.writer, "\n")

	examples := 0
	for _, s := range idx.Sections {
		name := s.ResourceName
		if name == "" {
			name = "(no resource)"
		}
		fmt.Fprintf(f.writer, "%s\n", bold(name))
		for _, v := range s.Examples {
			examples++
			f.formatExample(v)
		}
		fmt.Fprintf(f.writer, "\n")
	}

	fmt.Fprintf(f.writer, "Resources: %s, Examples: %s\n",
		cyan(fmt.Sprintf("%d", len(idx.Sections))),
		cyan(fmt.Sprintf("%d", examples)))
	return nil
}

func (f *ConsoleFormatter) formatExample(v *document.View) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	route := ""
	if v.Method != "" {
		route = fmt.Sprintf("%s %s  ", green(v.Method), v.Path)
	}
	requests := len(v.Requests())
	fmt.Fprintf(f.writer, "  %s%s %s\n", route, v.Description, yellow(fmt.Sprintf("(%d %s)", requests, plural(requests, "request"))))

	if !f.verbose {
		return
	}
	for _, tr := range v.Requests() {
		status := green(fmt.Sprintf("%d", tr.ResponseStatus))
		if tr.ResponseStatus >= 400 {
			status = red(fmt.Sprintf("%d", tr.ResponseStatus))
		}
		fmt.Fprintf(f.writer, "    %s %s -> %s %s\n", tr.Method, tr.Route, status, tr.ResponseStatusText)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitdoc"), version)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
)

// HTMLOutput is the data passed to the page template.
type HTMLOutput struct {
	Title      string
	APIVersion string
	Sections   []HTMLSection
	Generated  string
}

type HTMLSection struct {
	Name     string
	Anchor   string
	Examples []*document.View
}

// HTMLFormatter writes the index as a single HTML page.
type HTMLFormatter struct {
	writer io.Writer
	now    func() time.Time
}

type HTMLOption func(*HTMLFormatter)

func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer: os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		f.writer = w
	}
}

func HTMLWithClock(now func() time.Time) HTMLOption {
	return func(f *HTMLFormatter) {
		f.now = now
	}
}

func (f *HTMLFormatter) Format(idx *Index) error {
	out := HTMLOutput{
		Title:      idx.Title,
		APIVersion: idx.APIVersion,
		Generated:  f.now().Format("2006-01-02 15:04:05"),
	}
	for _, s := range idx.Sections {
		out.Sections = append(out.Sections, HTMLSection{
			Name:     s.ResourceName,
			Anchor:   anchor(s.ResourceName),
			Examples: s.Examples,
		})
	}

	tmpl, err := template.New("docs").Funcs(template.FuncMap{
		"lower": strings.ToLower,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}
	return tmpl.Execute(f.writer, out)
}

func anchor(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, sans-serif; margin: 0 auto; max-width: 960px; padding: 2rem; color: #222; }
nav a { margin-right: 1rem; }
.example { border-top: 1px solid #ddd; padding: 1rem 0; }
.method { font-weight: bold; padding: 0 .4rem; border-radius: 3px; color: #fff; background: #555; }
.method.get { background: #2b7; } .method.post { background: #27b; } .method.put { background: #b72; } .method.delete { background: #b22; }
pre { background: #f6f6f6; padding: .75rem; overflow-x: auto; }
table { border-collapse: collapse; } td, th { text-align: left; padding: .2rem .6rem; border-bottom: 1px solid #eee; }
</style>
</head>
<body>
<h1>{{.Title}} <small>{{.APIVersion}}</small></h1>
<nav>{{range .Sections}}<a href="#{{.Anchor}}">{{.Name}}</a>{{end}}</nav>
{{range .Sections}}
<section id="{{.Anchor}}">
<h2>{{.Name}}</h2>
{{range .Examples}}
<div class="example">
<h3>{{.Description}}</h3>
{{if .Method}}<p><span class="method {{lower .Method}}">{{.Method}}</span> <code>{{.Path}}</code></p>{{end}}
{{if .Explanation}}<p>{{.Explanation}}</p>{{end}}
{{if .HasParameters}}
<table>
<tr><th>Name</th><th>Description</th><th>Required</th><th>Scope</th></tr>
{{range .Parameters}}<tr><td>{{.Name}}</td><td>{{.Description}}</td><td>{{if .Required}}yes{{end}}</td><td>{{.Scope}}</td></tr>
{{end}}</table>
{{end}}
{{range .Requests}}
<h4>Request</h4>
<pre>{{.Method}} {{.Route}}
{{.RequestHeaders}}</pre>
{{if .RequestQueryParameters}}<pre>{{.RequestQueryParameters}}</pre>{{end}}
{{if .RequestBody}}<pre>{{deref .RequestBody}}</pre>{{end}}
<h4>Response</h4>
<pre>{{.ResponseStatus}} {{.ResponseStatusText}}
{{.ResponseHeaders}}</pre>
{{if .ResponseBody}}<pre>{{deref .ResponseBody}}</pre>{{end}}
{{end}}
</div>
{{end}}
</section>
{{end}}
<footer><small>Generated {{.Generated}}</small></footer>
</body>
</html>
`

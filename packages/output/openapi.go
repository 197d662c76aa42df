package output

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitdoc/packages/capture"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/abdul-hamid-achik/hitdoc/packages/request"
	"github.com/abdul-hamid-achik/hitdoc/packages/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

const openAPIVersion = "3.0.3"

var pathToken = regexp.MustCompile(`:(\w+)`)

// OpenAPIFormatter writes the index as an OpenAPI 3 document. Examples that
// share a method and path become one operation.
type OpenAPIFormatter struct {
	writer io.Writer
}

type OpenAPIOption func(*OpenAPIFormatter)

func NewOpenAPIFormatter(opts ...OpenAPIOption) *OpenAPIFormatter {
	f := &OpenAPIFormatter{writer: os.Stdout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func OpenAPIWithWriter(w io.Writer) OpenAPIOption {
	return func(f *OpenAPIFormatter) {
		f.writer = w
	}
}

func (f *OpenAPIFormatter) Format(idx *Index) error {
	doc := BuildOpenAPI(idx)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.writer.Write(data)
	return err
}

// OpenAPIPath converts a :name path template to {name} form.
func OpenAPIPath(path string) string {
	return pathToken.ReplaceAllString(path, "{$1}")
}

// BuildOpenAPI derives an OpenAPI document from the examples of idx.
// Examples without a method or path are ignored.
func BuildOpenAPI(idx *Index) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:   idx.Title,
			Version: idx.APIVersion,
		},
		Paths: openapi3.NewPaths(),
	}

	for _, section := range idx.Sections {
		if section.ResourceName != "" {
			doc.Tags = append(doc.Tags, &openapi3.Tag{Name: section.ResourceName})
		}
		for _, v := range section.Examples {
			if v.Method == "" || v.Path == "" {
				continue
			}
			path := OpenAPIPath(v.Path)
			item := doc.Paths.Value(path)
			if item == nil {
				item = &openapi3.PathItem{}
				doc.Paths.Set(path, item)
			}
			op := item.GetOperation(strings.ToUpper(v.Method))
			if op == nil {
				op = newOperation(v)
				item.SetOperation(strings.ToUpper(v.Method), op)
			}
			addExample(op, v)
		}
	}
	return doc
}

func newOperation(v *document.View) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Summary = v.Description
	op.Description = v.Explanation
	if v.ResourceName != "" {
		op.Tags = []string{v.ResourceName}
	}
	op.Responses = openapi3.NewResponses()

	declared := make(map[string]schema.Parameter)
	for _, p := range v.Parameters {
		if _, ok := declared[p.Name]; !ok {
			declared[p.Name] = p
		}
	}

	for _, name := range request.PathParams(v.Path) {
		param := openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema())
		if p, ok := declared[name]; ok {
			param.Description = p.Description
		}
		op.AddParameter(param)
	}

	var body []schema.Parameter
	for _, p := range v.Parameters {
		if request.InPath(v.Path, p.Name) {
			continue
		}
		if strings.EqualFold(v.Method, http.MethodGet) {
			name := p.Name
			if p.Scope != "" {
				name = p.Scope + "[" + p.Name + "]"
			}
			param := openapi3.NewQueryParameter(name).
				WithDescription(p.Description).
				WithRequired(p.Required).
				WithSchema(openapi3.NewStringSchema())
			op.AddParameter(param)
			continue
		}
		body = append(body, p)
	}
	if len(body) > 0 {
		op.RequestBody = &openapi3.RequestBodyRef{Value: requestBody(v, body)}
	}
	return op
}

// bodySchema builds an object schema with scoped parameters nested one level.
func bodySchema(params []schema.Parameter) *openapi3.Schema {
	root := openapi3.NewObjectSchema()
	for _, p := range params {
		prop := openapi3.NewStringSchema()
		prop.Description = p.Description
		target := root
		if p.Scope != "" {
			ref, ok := root.Properties[p.Scope]
			if !ok {
				root.WithProperty(p.Scope, openapi3.NewObjectSchema())
				ref = root.Properties[p.Scope]
			}
			target = ref.Value
		}
		target.WithProperty(p.Name, prop)
		if p.Required {
			target.Required = append(target.Required, p.Name)
		}
	}
	return root
}

func requestBody(v *document.View, params []schema.Parameter) *openapi3.RequestBody {
	s := bodySchema(params)
	contentType := "application/json"
	for _, tr := range v.Requests() {
		if ct := headerValue(tr.RequestHeaders, "Content-Type"); ct != "" {
			contentType = mediaType(ct)
			break
		}
	}
	rb := openapi3.NewRequestBody()
	if contentType == "application/x-www-form-urlencoded" {
		return rb.WithFormDataSchema(s)
	}
	rb = rb.WithJSONSchema(s)
	for _, tr := range v.Requests() {
		if tr.RequestBody == nil {
			continue
		}
		var example any
		if err := json.Unmarshal([]byte(*tr.RequestBody), &example); err == nil {
			rb.Content.Get("application/json").Example = example
			break
		}
	}
	return rb
}

func addExample(op *openapi3.Operation, v *document.View) {
	for _, tr := range v.Requests() {
		key := strconv.Itoa(tr.ResponseStatus)
		if op.Responses.Value(key) != nil {
			continue
		}
		op.Responses.Set(key, &openapi3.ResponseRef{Value: response(v, tr)})
		op.Responses.Delete("default")
	}
}

func response(v *document.View, tr capture.Transcript) *openapi3.Response {
	description := tr.ResponseStatusText
	if description == "" {
		description = http.StatusText(tr.ResponseStatus)
	}
	if v.Description != "" {
		description = v.Description
	}

	resp := openapi3.NewResponse().WithDescription(description)
	if tr.ResponseBody == nil {
		return resp
	}

	contentType := mediaType(headerValue(tr.ResponseHeaders, "Content-Type"))
	if contentType == "" {
		contentType = "text/plain"
	}
	var example any = *tr.ResponseBody
	if strings.HasSuffix(contentType, "json") {
		var decoded any
		if err := json.Unmarshal([]byte(*tr.ResponseBody), &decoded); err == nil {
			example = decoded
		}
	}
	resp.Content = openapi3.Content{
		contentType: &openapi3.MediaType{Example: example},
	}
	return resp
}

// headerValue finds name in rendered "Name: value" header lines.
func headerValue(rendered, name string) string {
	for _, line := range strings.Split(rendered, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}

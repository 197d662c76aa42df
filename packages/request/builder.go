package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/hitdoc/packages/schema"
)

var pathToken = regexp.MustCompile(`:(\w+)`)

// Encoding selects how a non-GET parameter hash is sent.
type Encoding int

const (
	// EncodeJSON serialises parameters to a JSON body.
	EncodeJSON Encoding = iota
	// EncodeForm leaves parameters as *Params for form encoding by the client.
	EncodeForm
)

// JSONBody is an encoded JSON request body. Clients send it as
// application/json.
type JSONBody []byte

// Spec is the method and path template declared for a group.
type Spec struct {
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
}

// Values maps parameter names to the accessors that produce their values. A
// missing entry means the value can not be supplied.
type Values map[string]func() any

// Lookup returns the value for name and whether an accessor exists.
func (v Values) Lookup(name string) (any, bool) {
	fn, ok := v[name]
	if !ok || fn == nil {
		return nil, false
	}
	return fn(), true
}

// Input is everything Build needs to produce a request.
type Input struct {
	Spec   Spec
	Params []schema.Parameter
	Values Values
	// Extra holds ad-hoc values supplied at call time. They win on collision.
	Extra map[string]any
	// RawBody, when set, replaces the parameter body for non-query requests.
	RawBody  func() any
	Encoding Encoding
}

// Request is a transport-ready request.
type Request struct {
	Method string
	// Route is the path, with the query string appended for GET requests.
	Route  string
	Params *Params
	// Body is nil, []byte (JSON), *Params (form) or a raw override value.
	Body any
}

// PathParams returns the :name tokens of template in order.
func PathParams(template string) []string {
	matches := pathToken.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// InPath reports whether name is a path parameter of template.
func InPath(template, name string) bool {
	for _, p := range PathParams(template) {
		if p == name {
			return true
		}
	}
	return false
}

// ResolvePath substitutes every :name token that has a value. Tokens without
// a value are left in place.
func ResolvePath(template string, values Values) string {
	return pathToken.ReplaceAllStringFunc(template, func(token string) string {
		if v, ok := values.Lookup(strings.TrimPrefix(token, ":")); ok {
			return stringify(v)
		}
		return token
	})
}

// ResolveParams builds the ordered parameter hash for template. Path
// parameters and parameters without an accessor are skipped.
func ResolveParams(params []schema.Parameter, template string, values Values, extra map[string]any) *Params {
	out := NewParams()
	for _, p := range params {
		if InPath(template, p.Name) {
			continue
		}
		v, ok := values.Lookup(p.Name)
		if !ok {
			continue
		}
		if p.Scope != "" {
			out.Nested(p.Scope).Set(p.Name, v)
		} else {
			out.Set(p.Name, v)
		}
	}
	return out.Merge(extra)
}

// Build resolves in into a request.
func Build(in Input) (*Request, error) {
	method := strings.ToUpper(in.Spec.Method)
	path := ResolvePath(in.Spec.Path, in.Values)
	params := ResolveParams(in.Params, in.Spec.Path, in.Values, in.Extra)

	req := &Request{
		Method: method,
		Route:  path,
		Params: params,
	}

	if method == http.MethodGet && params.Len() > 0 {
		req.Route = path + "?" + params.Encode()
		return req, nil
	}

	switch {
	case in.RawBody != nil:
		req.Body = in.RawBody()
	case params.Len() == 0:
	case in.Encoding == EncodeForm:
		req.Body = params
	default:
		body, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		req.Body = JSONBody(body)
	}

	return req, nil
}

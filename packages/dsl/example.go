package dsl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/abdul-hamid-achik/hitdoc/packages/capture"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	hhttp "github.com/abdul-hamid-achik/hitdoc/packages/http"
	"github.com/abdul-hamid-achik/hitdoc/packages/request"
	"github.com/abdul-hamid-achik/hitdoc/packages/schema"
)

var (
	// ErrNoRequest is returned by DoRequest outside a Get/Post/Put/Delete group.
	ErrNoRequest = errors.New("no request declared for example")
	// ErrNoCallbackURL is returned by DoCallback when no callback URL is set.
	ErrNoCallbackURL = errors.New("callback URL is not set")
	// ErrNoCallbackTrigger is returned by DoCallback when no trigger is set.
	ErrNoCallbackTrigger = errors.New("callback trigger is not set")
)

// ExampleOption configures an example declaration.
type ExampleOption func(*exampleDef)

// Pending marks the example as not yet implemented. It is skipped and never
// documented.
func Pending(reason string) ExampleOption {
	return func(d *exampleDef) {
		d.pending = true
		d.pendingReason = reason
	}
}

// WithDocument overrides the group's document flag for one example.
func WithDocument(tags ...string) ExampleOption {
	return func(d *exampleDef) {
		if len(tags) == 0 {
			d.document = document.FlagOn()
		} else {
			d.document = document.FlagTags(tags...)
		}
		d.documentSet = true
	}
}

// WithoutDocument keeps one example out of generated documentation.
func WithoutDocument() ExampleOption {
	return func(d *exampleDef) {
		d.document = document.FlagOff()
		d.documentSet = true
	}
}

type exampleDef struct {
	description   string
	fn            func(e *Example)
	pending       bool
	pendingReason string
	document      document.Flag
	documentSet   bool
}

// Example is one running example. It records every request it performs in
// its metadata.
type Example struct {
	def   *exampleDef
	group *Group
	suite *Suite
	t     testing.TB
	ctx   context.Context
	meta  document.Metadata
	memo  map[string]any

	client   *capture.Client
	callback *http.Client
	skipped  bool
}

func newExample(t testing.TB, g *Group, def *exampleDef) *Example {
	e := &Example{
		def:   def,
		group: g,
		suite: g.suite,
		t:     t,
		ctx:   context.Background(),
		meta:  document.Metadata{},
		memo:  make(map[string]any),
	}

	if v, ok := g.lookupMeta(document.KeyResourceName); ok {
		e.meta[document.KeyResourceName] = v
	}
	switch {
	case def.documentSet:
		e.meta[document.KeyDocument] = def.document
	default:
		if v, ok := g.lookupMeta(document.KeyDocument); ok {
			e.meta[document.KeyDocument] = v
		}
	}
	if v, ok := g.lookupMeta(document.KeyPublic); ok {
		e.meta[document.KeyPublic] = v
	}
	if spec := g.requestSpec(); spec != nil {
		e.meta[document.KeyMethod] = spec.Method
		e.meta[document.KeyPath] = spec.Path
	}
	if params := g.Parameters(); len(params) > 0 {
		e.meta[document.KeyParameters] = params
	}
	return e
}

func (e *Example) T() testing.TB {
	return e.t
}

func (e *Example) Context() context.Context {
	return e.ctx
}

func (e *Example) Description() string {
	return e.def.description
}

// Pending reports whether the example was declared pending or skipped
// itself while running.
func (e *Example) Pending() bool {
	return e.def.pending || e.skipped
}

func (e *Example) Metadata() document.Metadata {
	return e.meta
}

// AppendTranscript records a request/response pair on the example.
func (e *Example) AppendTranscript(tr capture.Transcript) {
	requests, _ := e.meta[document.KeyRequests].([]capture.Transcript)
	e.meta[document.KeyRequests] = append(requests, tr)
}

// Transcripts returns the requests recorded so far.
func (e *Example) Transcripts() []capture.Transcript {
	requests, _ := e.meta[document.KeyRequests].([]capture.Transcript)
	return requests
}

// Explanation attaches free text shown with the example.
func (e *Example) Explanation(text string) {
	e.meta[document.KeyExplanation] = text
}

// Value returns the let value called name, computing it on first use.
func (e *Example) Value(name string) any {
	if v, ok := e.memo[name]; ok {
		return v
	}
	fn, ok := e.group.lookupLet(name)
	if !ok {
		return nil
	}
	v := fn(e)
	e.memo[name] = v
	return v
}

// Has reports whether a let called name is visible to the example.
func (e *Example) Has(name string) bool {
	_, ok := e.group.lookupLet(name)
	return ok
}

func (e *Example) values() request.Values {
	names := e.group.letNames()
	values := make(request.Values, len(names))
	for _, name := range names {
		values[name] = func() any { return e.Value(name) }
	}
	return values
}

func (e *Example) Method() string {
	return e.meta.String(document.KeyMethod)
}

// Path returns the path template with available values substituted.
func (e *Example) Path() string {
	return request.ResolvePath(e.meta.String(document.KeyPath), e.values())
}

// InPath reports whether name is a token of the path template.
func (e *Example) InPath(name string) bool {
	return request.InPath(e.meta.String(document.KeyPath), name)
}

func (e *Example) parameters() []schema.Parameter {
	params, _ := e.meta[document.KeyParameters].([]schema.Parameter)
	return params
}

// Params returns the parameters a request without extras would send.
func (e *Example) Params() *request.Params {
	return request.ResolveParams(e.parameters(), e.meta.String(document.KeyPath), e.values(), nil)
}

// QueryString returns Params encoded for a URL.
func (e *Example) QueryString() string {
	return e.Params().Encode()
}

// Client returns the recording client, creating it on first use.
func (e *Example) Client() *capture.Client {
	if e.client != nil {
		return e.client
	}
	transport, err := e.suite.transport()
	if err != nil {
		e.t.Fatalf("creating transport: %v", err)
	}
	cfg := e.suite.cfg
	e.client = capture.NewClient(transport,
		capture.WithSink(e),
		capture.WithDefaultHeaders(cfg.Headers),
		capture.WithVerbose(cfg.GetVerbose()),
	)
	return e.client
}

// Header sets a header on every following request of the example.
func (e *Example) Header(name, value string) {
	e.Client().Header(name, value)
}

// DoRequest performs the group's request with extra ad-hoc parameters.
func (e *Example) DoRequest(extra map[string]any) (*hhttp.Response, error) {
	spec := e.group.requestSpec()
	if spec == nil {
		return nil, ErrNoRequest
	}

	in := request.Input{
		Spec:   *spec,
		Params: e.parameters(),
		Values: e.values(),
		Extra:  extra,
	}
	if raw := e.group.lookupRawPost(); raw != nil {
		in.RawBody = func() any { return raw(e) }
	}
	if e.suite.cfg.GetFormBodies() {
		in.Encoding = request.EncodeForm
	}

	req, err := request.Build(in)
	if err != nil {
		return nil, err
	}
	return e.Client().Perform(e.ctx, req.Method, req.Route, req.Body)
}

func (e *Example) Status() int {
	return e.Client().Status()
}

func (e *Example) ResponseBody() string {
	return e.Client().ResponseBody()
}

func (e *Example) ResponseHeaders() http.Header {
	resp := e.Client().LastResponse()
	if resp == nil {
		return nil
	}
	return resp.Headers
}

// CallbackURL returns the configured callback URL.
func (e *Example) CallbackURL() (string, error) {
	fn := e.group.lookupCallbackURL()
	if fn == nil {
		return "", ErrNoCallbackURL
	}
	return fn(e), nil
}

// DoCallback stubs the callback URL and runs the trigger. Requests the
// application sends through CallbackClient to that URL are served by the
// callback destination and recorded on the example.
func (e *Example) DoCallback() error {
	trigger := e.group.lookupTrigger()
	if trigger == nil {
		return ErrNoCallbackTrigger
	}
	callbackURL, err := e.CallbackURL()
	if err != nil {
		return err
	}
	stub, err := capture.NewCallbackStub(callbackURL, e.group.lookupCallbackDestination(), e)
	if err != nil {
		return fmt.Errorf("stubbing callback: %w", err)
	}
	e.callback = stub.Client()
	return trigger(e)
}

// CallbackClient is the client the trigger should hand to the application.
// Outside DoCallback it is http.DefaultClient.
func (e *Example) CallbackClient() *http.Client {
	if e.callback == nil {
		return http.DefaultClient
	}
	return e.callback
}

// Tags returns the document tags of the example.
func (e *Example) Tags() []string {
	flag, _ := e.meta[document.KeyDocument].(document.Flag)
	return flag.Tags()
}

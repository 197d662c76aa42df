package dsl

import (
	"errors"
	"net/http"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/abdul-hamid-achik/hitdoc/packages/request"
	"github.com/abdul-hamid-achik/hitdoc/packages/schema"
)

// LetFunc produces a named value for an example. Values are memoised per
// example.
type LetFunc func(e *Example) any

type ownership int

const (
	// borrowed groups read the nearest owning ancestor's schema.
	borrowed ownership = iota
	// owned groups hold their own copy.
	owned
)

// Group is one node of the declaration tree.
type Group struct {
	suite       *Suite
	parent      *Group
	description string
	meta        document.Metadata
	spec        *request.Spec

	schema    *schema.Schema
	ownership ownership

	lets                map[string]LetFunc
	rawPost             LetFunc
	before              []func(*Example)
	callbackURL         func(*Example) string
	callbackDestination http.Handler
	trigger             func(*Example) error

	children []*Group
	examples []*exampleDef
	errs     []error
}

func newGroup(suite *Suite, parent *Group, description string) *Group {
	return &Group{
		suite:       suite,
		parent:      parent,
		description: description,
		meta:        document.Metadata{},
		lets:        make(map[string]LetFunc),
	}
}

func (g *Group) Description() string {
	return g.description
}

func (g *Group) Parent() *Group {
	return g.parent
}

// Context declares a nested group.
func (g *Group) Context(description string, fn func(g *Group)) *Group {
	child := newGroup(g.suite, g, description)
	g.children = append(g.children, child)
	if fn != nil {
		fn(child)
	}
	return child
}

// Callback declares a nested group for examples that trigger callbacks.
func (g *Group) Callback(description string, fn func(g *Group)) *Group {
	return g.Context(description, fn)
}

// Request declares a nested group bound to method and path.
func (g *Group) Request(method, path string, fn func(g *Group)) *Group {
	child := newGroup(g.suite, g, method+" "+path)
	child.spec = &request.Spec{Method: method, Path: path}
	g.children = append(g.children, child)
	if fn != nil {
		fn(child)
	}
	return child
}

func (g *Group) Get(path string, fn func(g *Group)) *Group {
	return g.Request(http.MethodGet, path, fn)
}

func (g *Group) Post(path string, fn func(g *Group)) *Group {
	return g.Request(http.MethodPost, path, fn)
}

func (g *Group) Put(path string, fn func(g *Group)) *Group {
	return g.Request(http.MethodPut, path, fn)
}

func (g *Group) Delete(path string, fn func(g *Group)) *Group {
	return g.Request(http.MethodDelete, path, fn)
}

// Document sets the document flag of the group: on when no tags are given.
func (g *Group) Document(tags ...string) {
	if len(tags) == 0 {
		g.meta[document.KeyDocument] = document.FlagOn()
		return
	}
	g.meta[document.KeyDocument] = document.FlagTags(tags...)
}

// NoDocument keeps the group's examples out of generated documentation.
func (g *Group) NoDocument() {
	g.meta[document.KeyDocument] = document.FlagOff()
}

func (g *Group) Public() {
	g.meta[document.KeyPublic] = true
}

// Parameter declares a request parameter on the group.
func (g *Group) Parameter(name, description string, opts ...schema.Option) {
	g.ownSchema().Declare(name, description, opts...)
}

// RequiredParameters marks declared parameters as required. Undeclared names
// fail with a *schema.UndeclaredParameterError, which is also reported when
// the suite runs.
func (g *Group) RequiredParameters(names ...string) error {
	if err := g.ownSchema().Require(names...); err != nil {
		g.errs = append(g.errs, err)
		return err
	}
	return nil
}

// ScopeParameters nests the named parameters under scope. It does nothing
// when no parameters have been declared.
func (g *Group) ScopeParameters(scope string, keys ...string) {
	if g.resolvedSchema() == nil {
		return
	}
	g.ownSchema().SetScope(scope, keys...)
}

// ScopeAllParameters nests every currently declared parameter under scope.
func (g *Group) ScopeAllParameters(scope string) {
	if g.resolvedSchema() == nil {
		return
	}
	g.ownSchema().SetScopeAll(scope)
}

// Parameters returns the parameters visible to the group: inherited
// declarations first, then the group's own.
func (g *Group) Parameters() []schema.Parameter {
	return g.resolvedSchema().Params()
}

// OwnsSchema reports whether the group has diverged from its ancestors.
func (g *Group) OwnsSchema() bool {
	return g.ownership == owned
}

func (g *Group) resolvedSchema() *schema.Schema {
	for n := g; n != nil; n = n.parent {
		if n.ownership == owned {
			return n.schema
		}
	}
	return nil
}

func (g *Group) ownSchema() *schema.Schema {
	if g.ownership == owned {
		return g.schema
	}
	if inherited := g.resolvedSchema(); inherited != nil {
		g.schema = inherited.Clone()
	} else {
		g.schema = schema.New()
	}
	g.ownership = owned
	return g.schema
}

// Let registers a named value. Values with the same name as a parameter are
// sent with requests; names in the path template are substituted.
func (g *Group) Let(name string, fn LetFunc) {
	g.lets[name] = fn
}

// RawPost replaces the parameter body of non-GET requests with fn's value.
func (g *Group) RawPost(fn LetFunc) {
	g.rawPost = fn
}

// Before runs fn before every example of the group, outer groups first.
func (g *Group) Before(fn func(e *Example)) {
	g.before = append(g.before, fn)
}

func (g *Group) CallbackURL(fn func(e *Example) string) {
	g.callbackURL = fn
}

// CallbackDestination serves stubbed callback requests. The default
// acknowledges every request with 200.
func (g *Group) CallbackDestination(h http.Handler) {
	g.callbackDestination = h
}

// TriggerCallback sets the code that makes the application call back.
func (g *Group) TriggerCallback(fn func(e *Example) error) {
	g.trigger = fn
}

// Example declares an example.
func (g *Group) Example(description string, fn func(e *Example), opts ...ExampleOption) {
	def := &exampleDef{description: description, fn: fn}
	for _, opt := range opts {
		opt(def)
	}
	g.examples = append(g.examples, def)
}

// ExampleRequest declares an example that performs the group's request with
// extra ad-hoc parameters before running fn. fn may be nil.
func (g *Group) ExampleRequest(description string, extra map[string]any, fn func(e *Example), opts ...ExampleOption) {
	g.Example(description, func(e *Example) {
		if _, err := e.DoRequest(extra); err != nil {
			e.t.Fatalf("%s: %v", description, err)
		}
		if fn != nil {
			fn(e)
		}
	}, opts...)
}

// Err returns the definition errors of g and its descendants.
func (g *Group) Err() error {
	errs := append([]error(nil), g.errs...)
	for _, child := range g.children {
		if err := child.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Group) lookupMeta(key string) (any, bool) {
	for n := g; n != nil; n = n.parent {
		if v, ok := n.meta[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (g *Group) requestSpec() *request.Spec {
	for n := g; n != nil; n = n.parent {
		if n.spec != nil {
			return n.spec
		}
	}
	return nil
}

func (g *Group) lookupLet(name string) (LetFunc, bool) {
	for n := g; n != nil; n = n.parent {
		if fn, ok := n.lets[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// letNames returns every let name visible to g.
func (g *Group) letNames() []string {
	seen := make(map[string]bool)
	var names []string
	for n := g; n != nil; n = n.parent {
		for name := range n.lets {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func (g *Group) lookupRawPost() LetFunc {
	for n := g; n != nil; n = n.parent {
		if n.rawPost != nil {
			return n.rawPost
		}
	}
	return nil
}

func (g *Group) lookupCallbackURL() func(*Example) string {
	for n := g; n != nil; n = n.parent {
		if n.callbackURL != nil {
			return n.callbackURL
		}
	}
	return nil
}

func (g *Group) lookupCallbackDestination() http.Handler {
	for n := g; n != nil; n = n.parent {
		if n.callbackDestination != nil {
			return n.callbackDestination
		}
	}
	return nil
}

func (g *Group) lookupTrigger() func(*Example) error {
	for n := g; n != nil; n = n.parent {
		if n.trigger != nil {
			return n.trigger
		}
	}
	return nil
}

// beforeHooks returns the hooks of g and its ancestors, outermost first.
func (g *Group) beforeHooks() []func(*Example) {
	var chain []*Group
	for n := g; n != nil; n = n.parent {
		chain = append([]*Group{n}, chain...)
	}
	var hooks []func(*Example)
	for _, n := range chain {
		hooks = append(hooks, n.before...)
	}
	return hooks
}

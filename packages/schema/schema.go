package schema

import (
	"errors"
	"fmt"
)

// ErrUndeclaredParameter is matched by every UndeclaredParameterError.
var ErrUndeclaredParameter = errors.New("undeclared parameters can not be required")

// UndeclaredParameterError is returned when a parameter is marked required
// before it was declared.
type UndeclaredParameterError struct {
	Name string
}

func (e *UndeclaredParameterError) Error() string {
	return fmt.Sprintf("parameter %q: %v", e.Name, ErrUndeclaredParameter)
}

func (e *UndeclaredParameterError) Unwrap() error {
	return ErrUndeclaredParameter
}

// Parameter describes one documented request parameter.
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	// Scope nests the parameter under this key in bodies and query strings.
	// Empty means top level.
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// Option configures a Parameter at declaration time.
type Option func(*Parameter)

// Required marks the declared parameter as required.
func Required() Option {
	return func(p *Parameter) {
		p.Required = true
	}
}

// WithScope nests the declared parameter under scope.
func WithScope(scope string) Option {
	return func(p *Parameter) {
		p.Scope = scope
	}
}

// Schema is an ordered collection of parameter declarations.
type Schema struct {
	params []Parameter
}

// New returns a schema holding copies of params.
func New(params ...Parameter) *Schema {
	s := &Schema{params: make([]Parameter, 0, len(params))}
	s.params = append(s.params, params...)
	return s
}

// Declare appends a parameter declaration.
func (s *Schema) Declare(name, description string, opts ...Option) {
	p := Parameter{Name: name, Description: description}
	for _, opt := range opts {
		opt(&p)
	}
	s.params = append(s.params, p)
}

// Require marks the first declaration of each name as required. It stops at
// the first name that has no declaration.
func (s *Schema) Require(names ...string) error {
	for _, name := range names {
		i := s.index(name)
		if i < 0 {
			return &UndeclaredParameterError{Name: name}
		}
		s.params[i].Required = true
	}
	return nil
}

// SetScope sets scope on the first declaration of each key. Unknown keys are
// ignored.
func (s *Schema) SetScope(scope string, keys ...string) {
	for _, key := range keys {
		if i := s.index(key); i >= 0 {
			s.params[i].Scope = scope
		}
	}
}

// SetScopeAll sets scope on every currently declared parameter name.
func (s *Schema) SetScopeAll(scope string) {
	s.SetScope(scope, s.Names()...)
}

// Find returns the first declaration named name.
func (s *Schema) Find(name string) (Parameter, bool) {
	if i := s.index(name); i >= 0 {
		return s.params[i], true
	}
	return Parameter{}, false
}

// Names returns the declared names in declaration order, duplicates included.
func (s *Schema) Names() []string {
	names := make([]string, len(s.params))
	for i, p := range s.params {
		names[i] = p.Name
	}
	return names
}

// Params returns a copy of the declarations.
func (s *Schema) Params() []Parameter {
	if s == nil {
		return nil
	}
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.params)
}

// Clone returns an independent deep copy.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	return New(s.params...)
}

func (s *Schema) index(name string) int {
	for i, p := range s.params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Params is an insertion-ordered parameter hash. Values may be nested *Params.
type Params struct {
	keys   []string
	values map[string]any
}

func NewParams() *Params {
	return &Params{values: make(map[string]any)}
}

// Set stores value under key. Existing keys keep their position.
func (p *Params) Set(key string, value any) *Params {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

func (p *Params) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Nested returns the *Params stored under key, creating it when absent. A
// non-hash value under key is replaced.
func (p *Params) Nested(key string) *Params {
	if v, ok := p.values[key]; ok {
		if nested, ok := v.(*Params); ok {
			return nested
		}
	}
	nested := NewParams()
	p.Set(key, nested)
	return nested
}

func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Merge layers values over p. New keys are appended in sorted order so the
// result does not depend on map iteration.
func (p *Params) Merge(values map[string]any) *Params {
	for _, k := range sortedKeys(values) {
		p.Set(k, values[k])
	}
	return p
}

// Map converts p, recursively, to plain maps.
func (p *Params) Map() map[string]any {
	out := make(map[string]any, p.Len())
	for _, k := range p.Keys() {
		v := p.values[k]
		if nested, ok := v.(*Params); ok {
			v = nested.Map()
		}
		out[k] = v
	}
	return out
}

func (p *Params) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding parameter %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders p as a URL-encoded string. Nested hashes use scope[key]
// names and slices use key[] names.
func (p *Params) Encode() string {
	var pairs []string
	p.encode("", &pairs)
	return strings.Join(pairs, "&")
}

func (p *Params) encode(prefix string, pairs *[]string) {
	for _, k := range p.Keys() {
		encodeValue(nestedName(prefix, k), p.values[k], pairs)
	}
}

func nestedName(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}

// encodeValue appends the pairs for one value. Maps nest like scopes, in
// sorted key order.
func encodeValue(name string, value any, pairs *[]string) {
	switch v := value.(type) {
	case *Params:
		v.encode(name, pairs)
	case map[string]any:
		for _, k := range sortedKeys(v) {
			encodeValue(nestedName(name, k), v[k], pairs)
		}
	case map[string]string:
		for _, k := range sortedKeys(v) {
			encodeValue(nestedName(name, k), v[k], pairs)
		}
	case []string:
		for _, item := range v {
			*pairs = append(*pairs, url.QueryEscape(name+"[]")+"="+url.QueryEscape(item))
		}
	case []any:
		for _, item := range v {
			*pairs = append(*pairs, url.QueryEscape(name+"[]")+"="+url.QueryEscape(stringify(item)))
		}
	default:
		*pairs = append(*pairs, url.QueryEscape(name)+"="+url.QueryEscape(stringify(v)))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

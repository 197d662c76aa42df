package document

// Metadata is the documentation bag attached to a group or example.
type Metadata map[string]any

// Keys of the values stored in Metadata.
const (
	KeyResourceName = "resource_name" // string
	KeyDocument     = "document"      // Flag
	KeyPublic       = "public"        // bool
	KeyMethod       = "method"        // string
	KeyPath         = "path"          // string
	KeyParameters   = "parameters"    // []schema.Parameter
	KeyExplanation  = "explanation"   // string
	KeyRequests     = "requests"      // []capture.Transcript
)

// Source is an executed example as seen by the documentation layer.
type Source interface {
	Description() string
	Pending() bool
	Metadata() Metadata
}

func (m Metadata) String(key string) string {
	s, _ := m[key].(string)
	return s
}

func (m Metadata) Bool(key string) bool {
	b, _ := m[key].(bool)
	return b
}

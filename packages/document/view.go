package document

import (
	"github.com/abdul-hamid-achik/hitdoc/packages/capture"
	"github.com/abdul-hamid-achik/hitdoc/packages/schema"
	"github.com/google/uuid"
)

// View is a read-only snapshot of one executed example.
type View struct {
	ID           string               `json:"id" yaml:"id"`
	ResourceName string               `json:"resource_name,omitempty" yaml:"resource_name,omitempty"`
	Description  string               `json:"description" yaml:"description"`
	Method       string               `json:"method,omitempty" yaml:"method,omitempty"`
	Path         string               `json:"path,omitempty" yaml:"path,omitempty"`
	Explanation  string               `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Parameters   []schema.Parameter   `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Transcripts  []capture.Transcript `json:"requests" yaml:"requests"`
	Document     Flag                 `json:"document" yaml:"document"`
	Public       bool                 `json:"public,omitempty" yaml:"public,omitempty"`
	Pending      bool                 `json:"pending,omitempty" yaml:"pending,omitempty"`
}

// NewView copies the documentation fields out of src.
func NewView(src Source) *View {
	meta := src.Metadata()
	v := &View{
		ID:           uuid.NewString(),
		ResourceName: meta.String(KeyResourceName),
		Description:  src.Description(),
		Method:       meta.String(KeyMethod),
		Path:         meta.String(KeyPath),
		Explanation:  meta.String(KeyExplanation),
		Public:       meta.Bool(KeyPublic),
		Pending:      src.Pending(),
	}
	if flag, ok := meta[KeyDocument].(Flag); ok {
		v.Document = flag
	}
	if params, ok := meta[KeyParameters].([]schema.Parameter); ok {
		v.Parameters = append([]schema.Parameter(nil), params...)
	}
	if transcripts, ok := meta[KeyRequests].([]capture.Transcript); ok {
		v.Transcripts = append([]capture.Transcript(nil), transcripts...)
	}
	return v
}

func (v *View) HasParameters() bool {
	return len(v.Parameters) > 0
}

// Requests returns the captured transcripts, never nil.
func (v *View) Requests() []capture.Transcript {
	if v.Transcripts == nil {
		return []capture.Transcript{}
	}
	return v.Transcripts
}

// ShouldDocument applies the documentation rules in order: pending examples,
// examples without a resource and examples with the flag off are skipped; an
// All inclusion filter documents the rest; otherwise exclusion is checked
// before inclusion.
func (v *View) ShouldDocument(f Filters) bool {
	if v.Pending {
		return false
	}
	if v.ResourceName == "" || !v.Document.IsSet() {
		return false
	}
	if f.Include.IsAll() {
		return true
	}
	tags := v.Document.Tags()
	if f.Exclude.Intersects(tags) {
		return false
	}
	return f.Include.Intersects(tags)
}

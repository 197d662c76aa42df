package document

import (
	"cmp"
	"slices"
)

// Section is the documented examples of one resource.
type Section struct {
	ResourceName string  `json:"resource_name" yaml:"resource_name"`
	Examples     []*View `json:"examples" yaml:"examples"`
}

// Sections groups views by resource name. Examples are ordered by
// description and sections by resource name; both sorts are stable. views is
// not modified.
func Sections(views []*View) []Section {
	var sections []Section
	index := make(map[string]int)
	for _, v := range views {
		i, ok := index[v.ResourceName]
		if !ok {
			i = len(sections)
			index[v.ResourceName] = i
			sections = append(sections, Section{ResourceName: v.ResourceName})
		}
		sections[i].Examples = append(sections[i].Examples, v)
	}

	for _, s := range sections {
		slices.SortStableFunc(s.Examples, func(a, b *View) int {
			return cmp.Compare(a.Description, b.Description)
		})
	}
	slices.SortStableFunc(sections, func(a, b Section) int {
		return cmp.Compare(a.ResourceName, b.ResourceName)
	})
	return sections
}

// Documented returns the views that pass ShouldDocument, in order.
func Documented(views []*View, f Filters) []*View {
	var out []*View
	for _, v := range views {
		if v.ShouldDocument(f) {
			out = append(out, v)
		}
	}
	return out
}

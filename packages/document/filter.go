package document

import "slices"

// AllTag is the filter value that selects every documented example.
const AllTag = "all"

// Filter is either "all" or a list of tags.
type Filter struct {
	all  bool
	tags []string
}

func All() Filter {
	return Filter{all: true}
}

func Tags(tags ...string) Filter {
	return Filter{tags: append([]string(nil), tags...)}
}

// ParseFilter reads configuration values; any "all" entry selects All.
func ParseFilter(values []string) Filter {
	if slices.Contains(values, AllTag) {
		return All()
	}
	return Tags(values...)
}

func (f Filter) IsAll() bool {
	return f.all
}

func (f Filter) Tags() []string {
	return append([]string(nil), f.tags...)
}

// Intersects reports whether any of tags is selected. Outside the inclusion
// short-circuit an All filter is the literal tag "all", so it only selects
// examples tagged "all".
func (f Filter) Intersects(tags []string) bool {
	if f.all {
		return slices.Contains(tags, AllTag)
	}
	for _, tag := range tags {
		if slices.Contains(f.tags, tag) {
			return true
		}
	}
	return false
}

// Filters are the inclusion and exclusion filters of a documentation run.
type Filters struct {
	Include Filter
	Exclude Filter
}

// DefaultFilters includes everything and excludes nothing.
func DefaultFilters() Filters {
	return Filters{Include: All()}
}

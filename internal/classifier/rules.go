package classifier

import "strings"

// Target is the window field a rule compares.
type Target int

const (
	TargetName Target = iota
	TargetClass
	TargetTitle
)

func (t Target) String() string {
	switch t {
	case TargetClass:
		return "class"
	case TargetTitle:
		return "title"
	default:
		return "name"
	}
}

// FilterType identifies a title filter.
type FilterType int

const (
	FilterContainsAll FilterType = iota
	FilterContainsAny
	FilterIs
	FilterStartsWith
	FilterEndsWith
)

// Filter is a predicate over a window title.
type Filter struct {
	Type   FilterType
	Values []string
}

func ContainsAll(substrings ...string) Filter {
	return Filter{Type: FilterContainsAll, Values: substrings}
}

func ContainsAny(substrings ...string) Filter {
	return Filter{Type: FilterContainsAny, Values: substrings}
}

func Is(title string) Filter {
	return Filter{Type: FilterIs, Values: []string{title}}
}

func StartsWith(prefix string) Filter {
	return Filter{Type: FilterStartsWith, Values: []string{prefix}}
}

func EndsWith(suffix string) Filter {
	return Filter{Type: FilterEndsWith, Values: []string{suffix}}
}

// Match evaluates the filter against title.
func (f Filter) Match(title string) bool {
	switch f.Type {
	case FilterContainsAll:
		for _, s := range f.Values {
			if !strings.Contains(title, s) {
				return false
			}
		}
		return true
	case FilterContainsAny:
		for _, s := range f.Values {
			if strings.Contains(title, s) {
				return true
			}
		}
		return false
	case FilterIs:
		return title == f.first()
	case FilterStartsWith:
		return strings.HasPrefix(title, f.first())
	case FilterEndsWith:
		return strings.HasSuffix(title, f.first())
	}
	return false
}

func (f Filter) first() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

// rule is the compiled form of Rule.
type rule struct {
	target  Target
	values  []string
	filters []Filter
}

// apply reports whether the window matches. Title rules match on the value
// alone; name and class rules also need one passing title filter, if any
// filters are configured.
func (r rule) apply(name, class, title string) bool {
	var field string
	switch r.target {
	case TargetName:
		field = name
	case TargetClass:
		field = class
	case TargetTitle:
		field = title
	}
	if !contains(r.values, field) {
		return false
	}
	if r.target == TargetTitle || len(r.filters) == 0 {
		return true
	}
	for _, f := range r.filters {
		if f.Match(title) {
			return true
		}
	}
	return false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

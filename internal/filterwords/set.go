// Package filterwords keeps multi-select column filters under the
// "empty selection means All" convention.
package filterwords

// AllValue is the pseudo-value of the "All" checkbox. It is never stored.
const AllValue = "All"

// DeselectPolicy decides what unchecking a single value does while the
// field is in its implicit "All" state.
type DeselectPolicy string

const (
	// DeselectExpand turns "All minus v" into an explicit selection of
	// every known option except v.
	DeselectExpand DeselectPolicy = "expand"
	// DeselectNoop ignores the click; nothing can be removed from an empty set.
	DeselectNoop DeselectPolicy = "noop"
)

// Selection is an ordered, duplicate-free list of selected values.
type Selection []string

func (s Selection) contains(value string) bool {
	for _, v := range s {
		if v == value {
			return true
		}
	}
	return false
}

func (s Selection) without(value string) Selection {
	out := make(Selection, 0, len(s))
	for _, v := range s {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

// Set holds the selected values and the known options for each field.
type Set struct {
	policy   DeselectPolicy
	selected map[string]Selection
	options  map[string][]string
}

func NewSet(policy DeselectPolicy) *Set {
	if policy == "" {
		policy = DeselectExpand
	}
	return &Set{
		policy:   policy,
		selected: make(map[string]Selection),
		options:  make(map[string][]string),
	}
}

// SetOptions replaces the available values for field, typically from the
// latest report interface metadata.
func (s *Set) SetOptions(field string, options []string) {
	var uniq Selection
	for _, o := range options {
		if o != AllValue && !uniq.contains(o) {
			uniq = append(uniq, o)
		}
	}
	s.options[field] = uniq
}

// Options returns the known values for field.
func (s *Set) Options(field string) []string {
	return append([]string(nil), s.options[field]...)
}

// Selected returns a copy of the explicit selection for field. Empty means All.
func (s *Set) Selected(field string) Selection {
	return append(Selection(nil), s.selected[field]...)
}

func (s *Set) IsAllSelected(field string) bool {
	return len(s.selected[field]) == 0
}

// IsSelected reports whether value is explicitly selected. While the field
// is in the All state nothing is explicitly selected.
func (s *Set) IsSelected(field, value string) bool {
	return s.selected[field].contains(value)
}

// Toggle applies a checkbox click and reports whether the selection changed.
func (s *Set) Toggle(field, value string, on bool) bool {
	current := s.selected[field]

	if value == AllValue {
		if !on || len(current) == 0 {
			return false
		}
		delete(s.selected, field)
		return true
	}

	if !on {
		if len(current) == 0 {
			return s.expandWithout(field, value)
		}
		if !current.contains(value) {
			return false
		}
		s.store(field, current.without(value))
		return true
	}

	if current.contains(value) {
		return false
	}
	next := append(append(Selection(nil), current...), value)
	if s.coversOptions(field, next) {
		delete(s.selected, field)
		return true
	}
	s.store(field, next)
	return true
}

// Clear resets every field to All.
func (s *Set) Clear() {
	s.selected = make(map[string]Selection)
}

// Active returns the non-empty selections keyed by field.
func (s *Set) Active() map[string]Selection {
	out := make(map[string]Selection, len(s.selected))
	for field, sel := range s.selected {
		if len(sel) > 0 {
			out[field] = append(Selection(nil), sel...)
		}
	}
	return out
}

func (s *Set) expandWithout(field, value string) bool {
	if s.policy != DeselectExpand {
		return false
	}
	options := s.options[field]
	if !Selection(options).contains(value) {
		return false
	}
	rest := Selection(options).without(value)
	if len(rest) == 0 {
		return false
	}
	s.store(field, rest)
	return true
}

func (s *Set) coversOptions(field string, sel Selection) bool {
	options := s.options[field]
	if len(options) == 0 {
		return false
	}
	for _, o := range options {
		if !sel.contains(o) {
			return false
		}
	}
	return true
}

func (s *Set) store(field string, sel Selection) {
	if len(sel) == 0 {
		delete(s.selected, field)
		return
	}
	s.selected[field] = sel
}

package dataset

import (
	"sort"
)

// ClassMapping is a bijection from raw category values to dense class
// indices 0..n-1. Indices are assigned in sorted order of the distinct
// values, which guarantees the same mapping for the same category set
// across runs.
type ClassMapping struct {
	index   map[string]int
	classes []string
}

// NewClassMapping builds a mapping from the distinct values in the input.
func NewClassMapping(values []string) *ClassMapping {
	seen := make(map[string]bool, len(values))
	var classes []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	return &ClassMapping{index: index, classes: classes}
}

// Class returns the dense index for a category value. Absence is an error,
// not a default.
func (m *ClassMapping) Class(value string) (int, error) {
	idx, ok := m.index[value]
	if !ok {
		return 0, &MissingMappingError{Types: []string{value}}
	}
	return idx, nil
}

// Missing returns the subset of the given values with no entry in the
// mapping, sorted, with duplicates removed.
func (m *ClassMapping) Missing(values []string) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, v := range values {
		if _, ok := m.index[v]; !ok && !seen[v] {
			seen[v] = true
			missing = append(missing, v)
		}
	}
	sort.Strings(missing)
	return missing
}

// NumClasses returns the number of distinct classes in the mapping.
func (m *ClassMapping) NumClasses() int {
	return len(m.classes)
}

// Classes returns the category values in index order.
func (m *ClassMapping) Classes() []string {
	out := make([]string, len(m.classes))
	copy(out, m.classes)
	return out
}

// remapDense maps arbitrary integer labels onto 0..n-1 in sorted order.
// When the labels are already the dense range the returned mapping is the
// identity and applied is false, so callers can skip the rewrite.
func remapDense(labels []int) (mapping map[int]int, applied bool) {
	seen := make(map[int]bool, len(labels))
	var distinct []int
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			distinct = append(distinct, l)
		}
	}
	sort.Ints(distinct)

	mapping = make(map[int]int, len(distinct))
	for i, l := range distinct {
		mapping[l] = i
		if l != i {
			applied = true
		}
	}
	return mapping, applied
}

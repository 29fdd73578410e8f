package dataset

import (
	"fmt"
	"strings"
)

// MissingColumnError reports a required column absent from loaded tabular
// data. It is fatal and surfaced immediately at load time.
type MissingColumnError struct {
	Column string
	Path   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q in %s", e.Column, e.Path)
}

// MissingMappingError reports record types with no entry in a class mapping.
// It is raised eagerly at dataset construction, never at access time.
type MissingMappingError struct {
	Types []string
}

func (e *MissingMappingError) Error() string {
	return fmt.Sprintf("missing class number for types: %s", strings.Join(e.Types, ", "))
}

// ShapeMismatchError reports an embedding or feature width that does not
// match the dataset's fixed dimensionality. It aborts the run.
type ShapeMismatchError struct {
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("feature width mismatch: expected %d, got %d", e.Want, e.Got)
}

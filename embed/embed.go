// Package embed provides the text embedding capability consumed by the
// dataset layer: turning a text into a fixed-width numeric vector.
package embed

import (
	"context"
)

// Embedder converts text into a fixed-width vector. The vector width must be
// constant across calls within one experiment, and embedding must be a pure
// function of its input so that callers may invoke it concurrently.
type Embedder interface {
	// Name identifies the embedder in experiment metadata.
	Name() string

	// Dim returns the width of the vectors this embedder produces.
	Dim() int

	// Embed produces the vector representation of a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

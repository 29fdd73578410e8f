package dataset

import (
	"context"
	"fmt"

	"github.com/humachine/humachine/embed"
	"github.com/humachine/humachine/tensor"
)

// Lazy computes each sample's embedding on access instead of upfront. It
// trades repeated-access cost for lower peak memory: nothing is cached
// between accesses, so reading the same index twice embeds twice. Use it
// when materializing every embedding at once would be too memory intensive.
type Lazy struct {
	records  []Record
	embedder embed.Embedder
	mapping  *ClassMapping
}

// NewLazy wraps raw records with an embedder and a pre-built class mapping.
// Every type present in the records must have a mapping entry; the check
// runs here, at construction, so a gap never surfaces at access time.
func NewLazy(records []Record, embedder embed.Embedder, mapping *ClassMapping) (*Lazy, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot build a dataset from zero records")
	}

	if missing := mapping.Missing(Types(records)); len(missing) > 0 {
		return nil, &MissingMappingError{Types: missing}
	}

	return &Lazy{records: records, embedder: embedder, mapping: mapping}, nil
}

// Len returns the number of samples.
func (d *Lazy) Len() int {
	return len(d.records)
}

// Get embeds the record at index i and returns its vector and dense label.
func (d *Lazy) Get(i int) (*tensor.Tensor, int, error) {
	if i < 0 || i >= len(d.records) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", i, len(d.records))
	}

	rec := d.records[i]
	label, err := d.mapping.Class(rec.Type)
	if err != nil {
		return nil, 0, err
	}

	vec, err := d.embedder.Embed(context.Background(), rec.Text)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to embed record %d: %w", i, err)
	}
	if len(vec) != d.embedder.Dim() {
		return nil, 0, &ShapeMismatchError{Want: d.embedder.Dim(), Got: len(vec)}
	}

	t, err := tensor.FromFloat32([]int{len(vec)}, vec)
	if err != nil {
		return nil, 0, err
	}
	return t, label, nil
}

// Dim returns the feature width.
func (d *Lazy) Dim() int {
	return d.embedder.Dim()
}

// NumClasses returns the number of classes in the mapping.
func (d *Lazy) NumClasses() int {
	return d.mapping.NumClasses()
}

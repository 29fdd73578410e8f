package dataset

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/humachine/humachine/embed"
	"github.com/humachine/humachine/tensor"
)

// EagerOptions controls eager dataset construction.
type EagerOptions struct {
	// Workers bounds the number of concurrent embedding calls. Values
	// below 1 mean sequential embedding.
	Workers int

	// Progress, when set, is called after each record is embedded.
	Progress func(done, total int)
}

// Eager is a fully materialized dataset: every record's embedding is
// computed at construction and stored in a Table. Use it when the data fits
// in memory and samples are accessed repeatedly.
type Eager struct {
	table   *Table
	mapping *ClassMapping
}

// FromRecords embeds every record and assembles the tabular store. The
// class mapping is built from the record types, sorted. Embedding calls are
// pure per record, so they run concurrently up to opts.Workers.
func FromRecords(ctx context.Context, records []Record, embedder embed.Embedder, opts EagerOptions) (*Eager, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot build a dataset from zero records")
	}

	mapping := NewClassMapping(Types(records))
	dim := embedder.Dim()

	labels := make([]int, len(records))
	features := make([]float32, len(records)*dim)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var done int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		i := i
		g.Go(func() error {
			rec := records[i]
			label, err := mapping.Class(rec.Type)
			if err != nil {
				return err
			}

			vec, err := embedder.Embed(gctx, rec.Text)
			if err != nil {
				return fmt.Errorf("failed to embed record %d: %w", i, err)
			}
			if len(vec) != dim {
				return &ShapeMismatchError{Want: dim, Got: len(vec)}
			}

			labels[i] = label
			copy(features[i*dim:(i+1)*dim], vec)

			n := int(atomic.AddInt64(&done, 1))
			if opts.Progress != nil {
				opts.Progress(n, len(records))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// One embedded vector per input record, no more, no less.
	if n := int(atomic.LoadInt64(&done)); n != len(records) {
		return nil, fmt.Errorf("embedded %d vectors for %d records", n, len(records))
	}

	table, err := NewTable(labels, features, dim)
	if err != nil {
		return nil, err
	}

	return &Eager{table: table, mapping: mapping}, nil
}

// FromTable wraps an existing tabular store, typically one reloaded from
// CSV, as an eager dataset.
func FromTable(table *Table) *Eager {
	return &Eager{table: table}
}

// Len returns the number of samples.
func (d *Eager) Len() int {
	return d.table.Len()
}

// Get returns the feature vector and dense label of sample i.
func (d *Eager) Get(i int) (*tensor.Tensor, int, error) {
	if i < 0 || i >= d.table.Len() {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", i, d.table.Len())
	}
	vec, err := tensor.FromFloat32([]int{d.table.Dim()}, d.table.Row(i))
	if err != nil {
		return nil, 0, err
	}
	return vec, d.table.Label(i), nil
}

// Dim returns the feature width.
func (d *Eager) Dim() int {
	return d.table.Dim()
}

// NumClasses returns the number of distinct classes.
func (d *Eager) NumClasses() int {
	return d.table.NumClasses()
}

// Mapping returns the type-to-class mapping used at construction, or nil
// for datasets reloaded from a table.
func (d *Eager) Mapping() *ClassMapping {
	return d.mapping
}

// Table exposes the backing tabular store, e.g. for persistence.
func (d *Eager) Table() *Table {
	return d.table
}

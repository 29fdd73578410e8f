// Package training provides batching, loss computation, evaluation
// bookkeeping and the epoch harness that drives classifier training.
package training

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/humachine/humachine/tensor"
)

// Dataset is the sample source consumed by the DataLoader. Get returns
// one sample tensor and its integer class label.
type Dataset interface {
	Len() int
	Get(i int) (*tensor.Tensor, int, error)
	Dim() int
	NumClasses() int
}

// Batch is one step's worth of flattened samples. Data has shape
// [batch, dim]; Labels holds one class index per row.
type Batch struct {
	Data   *tensor.Tensor
	Labels []int
}

// DataLoader assembles dataset samples into batches. When shuffling is
// enabled the visit order is re-drawn each epoch from a seeded RNG, so
// runs with the same seed see the same order.
type DataLoader struct {
	dataset   Dataset
	batchSize int
	shuffle   bool
	rng       *rand.Rand
	indices   []int
	position  int
	mutex     sync.Mutex
}

// NewDataLoader creates a loader over the dataset. batchSize must be
// positive; the final batch of an epoch may be smaller.
func NewDataLoader(dataset Dataset, batchSize int, shuffle bool, seed int64) (*DataLoader, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	indices := make([]int, dataset.Len())
	for i := range indices {
		indices[i] = i
	}

	return &DataLoader{
		dataset:   dataset,
		batchSize: batchSize,
		shuffle:   shuffle,
		rng:       rand.New(rand.NewSource(seed)),
		indices:   indices,
	}, nil
}

// Len returns the number of batches per epoch.
func (dl *DataLoader) Len() int {
	return (dl.dataset.Len() + dl.batchSize - 1) / dl.batchSize
}

// Reset rewinds the loader for a new epoch, reshuffling if enabled.
func (dl *DataLoader) Reset() {
	dl.mutex.Lock()
	defer dl.mutex.Unlock()

	dl.position = 0

	if dl.shuffle {
		for i := len(dl.indices) - 1; i > 0; i-- {
			j := dl.rng.Intn(i + 1)
			dl.indices[i], dl.indices[j] = dl.indices[j], dl.indices[i]
		}
	}
}

// HasNext reports whether the current epoch has more batches.
func (dl *DataLoader) HasNext() bool {
	dl.mutex.Lock()
	defer dl.mutex.Unlock()
	return dl.position < len(dl.indices)
}

// Next returns the next batch, or nil at the end of the epoch.
func (dl *DataLoader) Next() (*Batch, error) {
	dl.mutex.Lock()
	defer dl.mutex.Unlock()

	if dl.position >= len(dl.indices) {
		return nil, nil
	}

	batchEnd := dl.position + dl.batchSize
	if batchEnd > len(dl.indices) {
		batchEnd = len(dl.indices)
	}
	batchIndices := dl.indices[dl.position:batchEnd]
	dl.position = batchEnd

	return dl.loadBatch(batchIndices)
}

// loadBatch fetches the indexed samples and flattens each into one row
// of a [batch, dim] tensor.
func (dl *DataLoader) loadBatch(indices []int) (*Batch, error) {
	dim := dl.dataset.Dim()
	data := make([]float32, len(indices)*dim)
	labels := make([]int, len(indices))

	for row, idx := range indices {
		sample, label, err := dl.dataset.Get(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to load sample %d: %w", idx, err)
		}
		values := sample.Float32s()
		if len(values) != dim {
			return nil, fmt.Errorf("sample %d has %d values, expected %d", idx, len(values), dim)
		}
		copy(data[row*dim:(row+1)*dim], values)
		labels[row] = label
	}

	batch, err := tensor.FromFloat32([]int{len(indices), dim}, data)
	if err != nil {
		return nil, err
	}
	return &Batch{Data: batch, Labels: labels}, nil
}

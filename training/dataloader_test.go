package training

import (
	"fmt"
	"testing"

	"github.com/humachine/humachine/tensor"
)

// sliceDataset serves fixed samples for loader tests.
type sliceDataset struct {
	samples [][]float32
	labels  []int
	failAt  int
}

func newSliceDataset(samples [][]float32, labels []int) *sliceDataset {
	return &sliceDataset{samples: samples, labels: labels, failAt: -1}
}

func (d *sliceDataset) Len() int { return len(d.samples) }

func (d *sliceDataset) Dim() int { return len(d.samples[0]) }

func (d *sliceDataset) NumClasses() int {
	max := 0
	for _, l := range d.labels {
		if l > max {
			max = l
		}
	}
	return max + 1
}

func (d *sliceDataset) Get(i int) (*tensor.Tensor, int, error) {
	if i == d.failAt {
		return nil, 0, fmt.Errorf("sample %d unavailable", i)
	}
	t, err := tensor.FromFloat32([]int{len(d.samples[i])}, d.samples[i])
	if err != nil {
		return nil, 0, err
	}
	return t, d.labels[i], nil
}

func rangeDataset(n, dim int) *sliceDataset {
	samples := make([][]float32, n)
	labels := make([]int, n)
	for i := range samples {
		row := make([]float32, dim)
		for j := range row {
			row[j] = float32(i)
		}
		samples[i] = row
		labels[i] = i % 2
	}
	return newSliceDataset(samples, labels)
}

func TestDataLoaderBatchShapes(t *testing.T) {
	ds := rangeDataset(10, 3)
	loader, err := NewDataLoader(ds, 4, false, 0)
	if err != nil {
		t.Fatal(err)
	}

	if loader.Len() != 3 {
		t.Errorf("Len() = %d, expected 3 batches", loader.Len())
	}

	loader.Reset()
	sizes := []int{}
	for {
		batch, err := loader.Next()
		if err != nil {
			t.Fatal(err)
		}
		if batch == nil {
			break
		}
		if batch.Data.Shape[1] != 3 {
			t.Errorf("batch width = %d, expected 3", batch.Data.Shape[1])
		}
		sizes = append(sizes, batch.Data.Shape[0])
	}

	want := []int{4, 4, 2}
	if len(sizes) != len(want) {
		t.Fatalf("got %d batches, expected %d", len(sizes), len(want))
	}
	for i, s := range sizes {
		if s != want[i] {
			t.Errorf("batch %d size = %d, expected %d", i, s, want[i])
		}
	}
}

func TestDataLoaderSequentialOrder(t *testing.T) {
	ds := rangeDataset(6, 1)
	loader, err := NewDataLoader(ds, 2, false, 0)
	if err != nil {
		t.Fatal(err)
	}

	loader.Reset()
	var seen []float32
	for {
		batch, err := loader.Next()
		if err != nil {
			t.Fatal(err)
		}
		if batch == nil {
			break
		}
		seen = append(seen, batch.Data.Float32s()...)
	}

	for i, v := range seen {
		if v != float32(i) {
			t.Fatalf("unshuffled loader visited sample %f at position %d", v, i)
		}
	}
}

func TestDataLoaderShuffleDeterministicPerSeed(t *testing.T) {
	collect := func(seed int64) []float32 {
		ds := rangeDataset(20, 1)
		loader, err := NewDataLoader(ds, 5, true, seed)
		if err != nil {
			t.Fatal(err)
		}
		loader.Reset()
		var seen []float32
		for {
			batch, err := loader.Next()
			if err != nil {
				t.Fatal(err)
			}
			if batch == nil {
				break
			}
			seen = append(seen, batch.Data.Float32s()...)
		}
		return seen
	}

	a, b := collect(7), collect(7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("same seed must produce identical shuffle order")
		}
	}

	c := collect(8)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical shuffle order")
	}
}

func TestDataLoaderShuffleCoversAllSamples(t *testing.T) {
	ds := rangeDataset(15, 1)
	loader, err := NewDataLoader(ds, 4, true, 3)
	if err != nil {
		t.Fatal(err)
	}

	loader.Reset()
	seen := make(map[float32]bool)
	for {
		batch, err := loader.Next()
		if err != nil {
			t.Fatal(err)
		}
		if batch == nil {
			break
		}
		for _, v := range batch.Data.Float32s() {
			seen[v] = true
		}
	}

	if len(seen) != 15 {
		t.Errorf("shuffled epoch visited %d distinct samples, expected 15", len(seen))
	}
}

func TestDataLoaderPropagatesSampleError(t *testing.T) {
	ds := rangeDataset(4, 2)
	ds.failAt = 2
	loader, err := NewDataLoader(ds, 4, false, 0)
	if err != nil {
		t.Fatal(err)
	}

	loader.Reset()
	if _, err := loader.Next(); err == nil {
		t.Error("expected error from failing sample")
	}
}

func TestDataLoaderRejectsBadBatchSize(t *testing.T) {
	if _, err := NewDataLoader(rangeDataset(4, 2), 0, false, 0); err == nil {
		t.Error("expected error for zero batch size")
	}
}

package vision

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/humachine/humachine/tensor"
)

// exportLogEvery is how many exported samples pass between progress lines.
const exportLogEvery = 500

// VectorDataset is the capability a projection dataset needs from its
// source: indexed access to fixed-width vector samples.
type VectorDataset interface {
	Len() int
	Get(i int) (*tensor.Tensor, int, error)
	Dim() int
	NumClasses() int
}

// ProjectionDataset adapts a vector dataset into an image dataset by
// projecting each sample through a Projector. With precompute enabled all
// images are rendered at construction; the cache is either complete or
// absent, never partial, so a cached dataset never falls through to a
// missing entry.
type ProjectionDataset struct {
	source    VectorDataset
	projector *Projector
	height    int
	width     int

	// cache holds every projected image, or nil. A partially built cache
	// is never installed.
	cache       []*tensor.Tensor
	cacheLabels []int
}

// NewProjectionDataset wraps a vector dataset. When precompute is true
// every sample is projected up front, trading startup latency for zero
// per-access projection cost.
func NewProjectionDataset(source VectorDataset, projector *Projector, precompute bool) (*ProjectionDataset, error) {
	height, width := projector.OutputSize(source.Dim())
	ds := &ProjectionDataset{
		source:    source,
		projector: projector,
		height:    height,
		width:     width,
	}

	if precompute {
		cache := make([]*tensor.Tensor, source.Len())
		labels := make([]int, source.Len())
		for i := 0; i < source.Len(); i++ {
			vec, label, err := source.Get(i)
			if err != nil {
				return nil, fmt.Errorf("failed to load sample %d for precompute: %w", i, err)
			}
			img, err := projector.Project(vec.Float32s())
			if err != nil {
				return nil, fmt.Errorf("failed to project sample %d: %w", i, err)
			}
			cache[i] = img
			labels[i] = label
		}
		// Only a fully populated cache is installed.
		ds.cache = cache
		ds.cacheLabels = labels
	}

	return ds, nil
}

// Len returns the number of samples.
func (d *ProjectionDataset) Len() int {
	return d.source.Len()
}

// Get returns the projected image and label of sample i.
func (d *ProjectionDataset) Get(i int) (*tensor.Tensor, int, error) {
	if d.cache != nil {
		if i < 0 || i >= len(d.cache) {
			return nil, 0, fmt.Errorf("index %d out of range [0, %d)", i, len(d.cache))
		}
		return d.cache[i], d.cacheLabels[i], nil
	}

	vec, label, err := d.source.Get(i)
	if err != nil {
		return nil, 0, err
	}

	img, err := d.projector.Project(vec.Float32s())
	if err != nil {
		return nil, 0, err
	}
	return img, label, nil
}

// Dim returns the flattened image size.
func (d *ProjectionDataset) Dim() int {
	return d.height * d.width
}

// Height returns the image height.
func (d *ProjectionDataset) Height() int {
	return d.height
}

// Width returns the image width.
func (d *ProjectionDataset) Width() int {
	return d.width
}

// NumClasses returns the number of classes, delegated to the source.
func (d *ProjectionDataset) NumClasses() int {
	return d.source.NumClasses()
}

// Cached reports whether the full precompute cache is installed.
func (d *ProjectionDataset) Cached() bool {
	return d.cache != nil
}

// Export writes every sample's projected image as a PNG under root, one
// subdirectory per class index: <root>/<label>/<index>.png. Directories
// are created idempotently and progress is logged periodically.
func (d *ProjectionDataset) Export(root string, logger *zap.Logger) error {
	for c := 0; c < d.NumClasses(); c++ {
		classDir := filepath.Join(root, strconv.Itoa(c))
		if err := os.MkdirAll(classDir, 0o755); err != nil {
			return fmt.Errorf("failed to create class directory %s: %w", classDir, err)
		}
	}

	total := d.Len()
	logger.Info("exporting projected images",
		zap.String("root", root),
		zap.Int("samples", total),
		zap.Int("classes", d.NumClasses()))

	for i := 0; i < total; i++ {
		img, label, err := d.Get(i)
		if err != nil {
			return fmt.Errorf("failed to project sample %d: %w", i, err)
		}

		path := filepath.Join(root, strconv.Itoa(label), fmt.Sprintf("%d.png", i))
		if err := writeGrayPNG(path, img); err != nil {
			return fmt.Errorf("failed to write sample %d: %w", i, err)
		}

		if (i+1)%exportLogEvery == 0 {
			logger.Info("export progress", zap.Int("done", i+1), zap.Int("total", total))
		}
	}

	logger.Info("export completed", zap.Int("samples", total))
	return nil
}

// writeGrayPNG encodes a [1, H, W] tensor with values in [0,255] as an
// 8-bit grayscale PNG.
func writeGrayPNG(path string, t *tensor.Tensor) error {
	if len(t.Shape) != 3 || t.Shape[0] != 1 {
		return fmt.Errorf("expected image tensor of shape [1 H W], got %v", t.Shape)
	}

	height := t.Shape[1]
	width := t.Shape[2]
	data := t.Float32s()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := data[y*width+x]
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			img.Pix[y*img.Stride+x] = uint8(v + 0.5)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

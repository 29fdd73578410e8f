// Package vision turns embedding vectors into single-channel images and
// loads image datasets for training.
package vision

import (
	"fmt"

	"github.com/humachine/humachine/tensor"
)

// DefaultCanvasSize is the fixed edge length images are resized to when
// resizing is enabled.
const DefaultCanvasSize = 100

// midpointValue is the pixel value used for every cell when the input
// vector is constant and min-max normalization is undefined.
const midpointValue = 127.5

// DegenerateVectorError reports a constant input vector (max == min), for
// which min-max normalization has no defined result.
type DegenerateVectorError struct {
	Length int
}

func (e *DegenerateVectorError) Error() string {
	return fmt.Sprintf("constant vector of length %d cannot be min-max normalized", e.Length)
}

// Projector converts a 1-D feature vector into a square single-channel
// image: min-max normalize the vector to [0,1] using its own extrema, take
// the outer product with itself, and scale to [0,255]. The result is
// deterministic for a given input.
type Projector struct {
	resize bool
	canvas int
}

// NewProjector creates a projector. When resize is true every projected
// image is resampled to canvas x canvas; canvas values below 1 select
// DefaultCanvasSize.
func NewProjector(resize bool, canvas int) *Projector {
	if canvas < 1 {
		canvas = DefaultCanvasSize
	}
	return &Projector{resize: resize, canvas: canvas}
}

// OutputSize returns the height and width of images projected from vectors
// of the given length.
func (p *Projector) OutputSize(dim int) (height, width int) {
	if p.resize {
		return p.canvas, p.canvas
	}
	return dim, dim
}

// Project renders a vector as an image tensor of shape [1, H, W] with
// values in [0,255] before any resize. A constant vector has no usable
// extrema; its image is filled with the midpoint value rather than
// propagating NaN from the division.
func (p *Projector) Project(vec []float32) (*tensor.Tensor, error) {
	v := len(vec)
	if v == 0 {
		return nil, fmt.Errorf("cannot project an empty vector")
	}

	minVal, maxVal := vec[0], vec[0]
	for _, x := range vec[1:] {
		if x < minVal {
			minVal = x
		}
		if x > maxVal {
			maxVal = x
		}
	}

	pixels := make([]float32, v*v)
	if maxVal == minVal {
		for i := range pixels {
			pixels[i] = midpointValue
		}
	} else {
		normalized := make([]float32, v)
		scale := 1 / (maxVal - minVal)
		for i, x := range vec {
			normalized[i] = (x - minVal) * scale
		}
		for i := 0; i < v; i++ {
			for j := 0; j < v; j++ {
				pixels[i*v+j] = normalized[i] * normalized[j] * 255
			}
		}
	}

	if p.resize && v != p.canvas {
		pixels = resampleGray(pixels, v, v, p.canvas, p.canvas)
		return tensor.NewTensor([]int{1, p.canvas, p.canvas}, tensor.Float32, pixels)
	}

	return tensor.NewTensor([]int{1, v, v}, tensor.Float32, pixels)
}

// IsDegenerate reports whether a vector is constant, i.e. would fall back
// to the midpoint image under Project.
func IsDegenerate(vec []float32) bool {
	if len(vec) == 0 {
		return false
	}
	for _, x := range vec[1:] {
		if x != vec[0] {
			return false
		}
	}
	return true
}

// resampleGray scales a single-channel image to the target size by sampling
// the nearest source pixel per target pixel.
func resampleGray(src []float32, height, width, targetH, targetW int) []float32 {
	dst := make([]float32, targetH*targetW)
	scaleY := float64(height) / float64(targetH)
	scaleX := float64(width) / float64(targetW)

	for y := 0; y < targetH; y++ {
		srcY := int(float64(y) * scaleY)
		if srcY >= height {
			srcY = height - 1
		}
		for x := 0; x < targetW; x++ {
			srcX := int(float64(x) * scaleX)
			if srcX >= width {
				srcX = width - 1
			}
			dst[y*targetW+x] = src[srcY*width+srcX]
		}
	}
	return dst
}

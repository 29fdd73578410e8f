package vision

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "image/jpeg"
	_ "image/png"

	"github.com/humachine/humachine/tensor"
)

// FolderDataset loads a directory-per-class image tree: each top-level
// subdirectory is named after its class index and contains one image file
// per sample. Loaded pixels are converted to a single grayscale channel on
// [0,1] and then affinely normalized to [-1,1].
type FolderDataset struct {
	imagePaths []string
	labels     []int
	numClasses int
	height     int
	width      int
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// NewFolderDataset scans root for class subdirectories. Image dimensions
// are probed from the first loaded sample.
func NewFolderDataset(root string) (*FolderDataset, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	type classDir struct {
		label int
		path  string
	}
	var classes []classDir
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		label, err := strconv.Atoi(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("class directory %q is not an integer class index", entry.Name())
		}
		classes = append(classes, classDir{label: label, path: filepath.Join(root, entry.Name())})
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("no class directories found in %s", root)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].label < classes[j].label })

	ds := &FolderDataset{numClasses: len(classes)}
	for _, class := range classes {
		files, err := os.ReadDir(class.path)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", class.path, err)
		}
		for _, f := range files {
			if f.IsDir() || !imageExtensions[filepath.Ext(f.Name())] {
				continue
			}
			ds.imagePaths = append(ds.imagePaths, filepath.Join(class.path, f.Name()))
			ds.labels = append(ds.labels, class.label)
		}
	}
	if len(ds.imagePaths) == 0 {
		return nil, fmt.Errorf("no images found in %s", root)
	}

	// Probe the first sample for image dimensions.
	first, _, err := ds.Get(0)
	if err != nil {
		return nil, fmt.Errorf("failed to probe image dimensions: %w", err)
	}
	ds.height = first.Shape[1]
	ds.width = first.Shape[2]

	return ds, nil
}

// Len returns the number of samples.
func (d *FolderDataset) Len() int {
	return len(d.imagePaths)
}

// Get loads, grayscales, and normalizes the image at index i.
func (d *FolderDataset) Get(i int) (*tensor.Tensor, int, error) {
	if i < 0 || i >= len(d.imagePaths) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", i, len(d.imagePaths))
	}

	file, err := os.Open(d.imagePaths[i])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", d.imagePaths[i], err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", d.imagePaths[i], err)
	}

	bounds := img.Bounds()
	height := bounds.Dy()
	width := bounds.Dx()
	data := make([]float32, height*width)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Luma weighting on [0,1], then the fixed (x-0.5)/0.5 affine
			// transform to zero-center.
			gray := (0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)) / 65535.0
			data[y*width+x] = (gray - 0.5) / 0.5
		}
	}

	t, err := tensor.NewTensor([]int{1, height, width}, tensor.Float32, data)
	if err != nil {
		return nil, 0, err
	}
	return t, d.labels[i], nil
}

// Dim returns the flattened image size.
func (d *FolderDataset) Dim() int {
	return d.height * d.width
}

// Height returns the probed image height.
func (d *FolderDataset) Height() int {
	return d.height
}

// Width returns the probed image width.
func (d *FolderDataset) Width() int {
	return d.width
}

// NumClasses returns the number of class subdirectories.
func (d *FolderDataset) NumClasses() int {
	return d.numClasses
}

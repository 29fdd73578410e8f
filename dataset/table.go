package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// labelColumn is the reserved name of the class-label column in persisted
// tables. Feature columns are named f0..f{n-1}.
const labelColumn = "label"

// Table is the tabular sample store: one row per sample, a dense class
// label plus a fixed-width feature vector. Labels are re-indexed onto
// 0..n-1 at construction and the table is immutable afterwards.
type Table struct {
	labels     []int
	features   []float32 // row-major, len(labels) * dim
	dim        int
	numClasses int
}

// NewTable builds a table from parallel labels and row-major features.
// Labels are remapped onto the dense 0..n-1 range in sorted order; if they
// already form that range no rewrite occurs.
func NewTable(labels []int, features []float32, dim int) (*Table, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("feature width must be positive, got %d", dim)
	}
	if len(features) != len(labels)*dim {
		return nil, &ShapeMismatchError{Want: len(labels) * dim, Got: len(features)}
	}

	mapping, applied := remapDense(labels)
	stored := labels
	if applied {
		stored = make([]int, len(labels))
		for i, l := range labels {
			stored[i] = mapping[l]
		}
	}

	return &Table{
		labels:     stored,
		features:   features,
		dim:        dim,
		numClasses: len(mapping),
	}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.labels)
}

// Dim returns the feature width (the embedding dimensionality).
func (t *Table) Dim() int {
	return t.dim
}

// NumClasses returns the number of distinct labels.
func (t *Table) NumClasses() int {
	return t.numClasses
}

// Label returns the dense class label of row i.
func (t *Table) Label(i int) int {
	return t.labels[i]
}

// Row returns the feature vector of row i. The slice aliases the table's
// backing storage and must not be modified.
func (t *Table) Row(i int) []float32 {
	return t.features[i*t.dim : (i+1)*t.dim]
}

// SaveCSV writes the table as a delimited text file with named columns:
// the label column first, then f0..f{n-1}.
func (t *Table) SaveCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, 0, t.dim+1)
	header = append(header, labelColumn)
	for i := 0; i < t.dim; i++ {
		header = append(header, fmt.Sprintf("f%d", i))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, t.dim+1)
	for i := 0; i < t.Len(); i++ {
		row[0] = strconv.Itoa(t.labels[i])
		for j, v := range t.Row(i) {
			row[j+1] = strconv.FormatFloat(float64(v), 'g', -1, 32)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	return writer.Error()
}

// LoadCSV reads a table previously written by SaveCSV. The label column is
// located by name; every other column is treated as a feature column in
// header order. A file without a label column fails immediately.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	labelCol := -1
	var featureCols []int
	for i, name := range header {
		if name == labelColumn {
			labelCol = i
			continue
		}
		featureCols = append(featureCols, i)
	}
	if labelCol < 0 {
		return nil, &MissingColumnError{Column: labelColumn, Path: path}
	}
	if len(featureCols) == 0 {
		return nil, fmt.Errorf("no feature columns in %s", path)
	}

	var labels []int
	var features []float32
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d from %s: %w", rowNum, path, err)
		}

		label, err := strconv.Atoi(row[labelCol])
		if err != nil {
			return nil, fmt.Errorf("invalid label %q in row %d: %w", row[labelCol], rowNum, err)
		}
		labels = append(labels, label)

		for _, col := range featureCols {
			v, err := strconv.ParseFloat(row[col], 32)
			if err != nil {
				return nil, fmt.Errorf("invalid feature %q in row %d: %w", row[col], rowNum, err)
			}
			features = append(features, float32(v))
		}
		rowNum++
	}

	return NewTable(labels, features, len(featureCols))
}

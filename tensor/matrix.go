package tensor

import (
	"fmt"
)

// MatMul multiplies two 2-D Float32 tensors.
func MatMul(t1, t2 *Tensor) (*Tensor, error) {
	if t1.DType != Float32 || t2.DType != Float32 {
		return nil, fmt.Errorf("matmul requires Float32 tensors, got %s and %s", t1.DType, t2.DType)
	}
	if len(t1.Shape) != 2 || len(t2.Shape) != 2 {
		return nil, fmt.Errorf("matmul requires 2-dimensional tensors, got shapes %v and %v", t1.Shape, t2.Shape)
	}

	rows1 := t1.Shape[0]
	cols1 := t1.Shape[1]
	rows2 := t2.Shape[0]
	cols2 := t2.Shape[1]

	if cols1 != rows2 {
		return nil, fmt.Errorf("incompatible dimensions for matmul: (%d, %d) x (%d, %d)", rows1, cols1, rows2, cols2)
	}

	result, err := Zeros([]int{rows1, cols2}, Float32)
	if err != nil {
		return nil, err
	}

	data1 := t1.Float32s()
	data2 := t2.Float32s()
	resultData := result.Float32s()

	for i := 0; i < rows1; i++ {
		for j := 0; j < cols2; j++ {
			var sum float32
			for k := 0; k < cols1; k++ {
				sum += data1[i*cols1+k] * data2[k*cols2+j]
			}
			resultData[i*cols2+j] = sum
		}
	}

	return result, nil
}

// Transpose2D swaps the two dimensions of a 2-D Float32 tensor.
func Transpose2D(t *Tensor) (*Tensor, error) {
	if t.DType != Float32 {
		return nil, fmt.Errorf("unsupported dtype for Transpose2D: %s", t.DType)
	}
	if len(t.Shape) != 2 {
		return nil, fmt.Errorf("Transpose2D requires a 2-dimensional tensor, got shape %v", t.Shape)
	}

	rows := t.Shape[0]
	cols := t.Shape[1]

	result, err := Zeros([]int{cols, rows}, Float32)
	if err != nil {
		return nil, err
	}

	data := t.Float32s()
	resultData := result.Float32s()

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			resultData[j*rows+i] = data[i*cols+j]
		}
	}

	return result, nil
}

// Reshape returns a tensor with the same data and a new shape.
func Reshape(t *Tensor, newShape []int) (*Tensor, error) {
	if err := validateShape(newShape); err != nil {
		return nil, err
	}

	newNumElems := calculateNumElements(newShape)
	if newNumElems != t.NumElems {
		return nil, fmt.Errorf("cannot reshape tensor of size %d into shape %v (size %d)",
			t.NumElems, newShape, newNumElems)
	}

	return &Tensor{
		Shape:    newShape,
		Strides:  calculateStrides(newShape),
		DType:    t.DType,
		Data:     t.Data,
		NumElems: t.NumElems,
	}, nil
}

// Flatten collapses a tensor to one dimension, sharing the backing data.
func Flatten(t *Tensor) (*Tensor, error) {
	return Reshape(t, []int{t.NumElems})
}

// Outer computes the outer product of two 1-D Float32 vectors.
func Outer(a, b *Tensor) (*Tensor, error) {
	if a.DType != Float32 || b.DType != Float32 {
		return nil, fmt.Errorf("outer product requires Float32 tensors, got %s and %s", a.DType, b.DType)
	}
	if len(a.Shape) != 1 || len(b.Shape) != 1 {
		return nil, fmt.Errorf("outer product requires 1-dimensional tensors, got shapes %v and %v", a.Shape, b.Shape)
	}

	n := a.Shape[0]
	m := b.Shape[0]

	result, err := Zeros([]int{n, m}, Float32)
	if err != nil {
		return nil, err
	}

	aData := a.Float32s()
	bData := b.Float32s()
	resultData := result.Float32s()

	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			resultData[i*m+j] = aData[i] * bData[j]
		}
	}

	return result, nil
}

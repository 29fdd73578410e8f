package tensor

import (
	"testing"
)

func TestNewTensor(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	tn, err := NewTensor([]int{2, 3}, Float32, data)
	if err != nil {
		t.Fatalf("NewTensor failed: %v", err)
	}

	if tn.NumElems != 6 {
		t.Errorf("Expected 6 elements, got %d", tn.NumElems)
	}

	expectedStrides := []int{3, 1}
	for i, s := range tn.Strides {
		if s != expectedStrides[i] {
			t.Errorf("Stride %d: expected %d, got %d", i, expectedStrides[i], s)
		}
	}
}

func TestNewTensorInvalidShape(t *testing.T) {
	_, err := NewTensor([]int{2, 0}, Float32, nil)
	if err == nil {
		t.Error("Expected error for zero-sized dimension")
	}

	_, err = NewTensor([]int{-1, 3}, Float32, nil)
	if err == nil {
		t.Error("Expected error for negative dimension")
	}
}

func TestNewTensorDataLengthMismatch(t *testing.T) {
	_, err := NewTensor([]int{2, 3}, Float32, []float32{1, 2, 3})
	if err == nil {
		t.Error("Expected error for data length mismatch")
	}
}

func TestZeros(t *testing.T) {
	tn, err := Zeros([]int{3, 2}, Float32)
	if err != nil {
		t.Fatalf("Zeros failed: %v", err)
	}

	for i, v := range tn.Float32s() {
		if v != 0 {
			t.Errorf("Element %d: expected 0, got %f", i, v)
		}
	}
}

func TestMatMul(t *testing.T) {
	a, _ := NewTensor([]int{2, 3}, Float32, []float32{1, 2, 3, 4, 5, 6})
	b, _ := NewTensor([]int{3, 2}, Float32, []float32{7, 8, 9, 10, 11, 12})

	c, err := MatMul(a, b)
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}

	expected := []float32{58, 64, 139, 154}
	for i, v := range c.Float32s() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %f, got %f", i, expected[i], v)
		}
	}
}

func TestMatMulIncompatibleShapes(t *testing.T) {
	a, _ := Zeros([]int{2, 3}, Float32)
	b, _ := Zeros([]int{2, 3}, Float32)

	if _, err := MatMul(a, b); err == nil {
		t.Error("Expected error for incompatible matmul shapes")
	}
}

func TestTranspose2D(t *testing.T) {
	a, _ := NewTensor([]int{2, 3}, Float32, []float32{1, 2, 3, 4, 5, 6})

	at, err := Transpose2D(a)
	if err != nil {
		t.Fatalf("Transpose2D failed: %v", err)
	}

	if at.Shape[0] != 3 || at.Shape[1] != 2 {
		t.Errorf("Expected shape [3 2], got %v", at.Shape)
	}

	expected := []float32{1, 4, 2, 5, 3, 6}
	for i, v := range at.Float32s() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %f, got %f", i, expected[i], v)
		}
	}
}

func TestOuter(t *testing.T) {
	a, _ := NewTensor([]int{2}, Float32, []float32{1, 2})
	b, _ := NewTensor([]int{3}, Float32, []float32{3, 4, 5})

	c, err := Outer(a, b)
	if err != nil {
		t.Fatalf("Outer failed: %v", err)
	}

	if c.Shape[0] != 2 || c.Shape[1] != 3 {
		t.Errorf("Expected shape [2 3], got %v", c.Shape)
	}

	expected := []float32{3, 4, 5, 6, 8, 10}
	for i, v := range c.Float32s() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %f, got %f", i, expected[i], v)
		}
	}
}

func TestReshapeSharesData(t *testing.T) {
	a, _ := NewTensor([]int{2, 3}, Float32, []float32{1, 2, 3, 4, 5, 6})

	b, err := Reshape(a, []int{3, 2})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}

	b.Float32s()[0] = 99
	if a.Float32s()[0] != 99 {
		t.Error("Reshape should share the backing data")
	}

	if _, err := Reshape(a, []int{4, 2}); err == nil {
		t.Error("Expected error for reshape with mismatched size")
	}
}

func TestRandomNormalDeterministic(t *testing.T) {
	a, err := RandomNormal([]int{4, 4}, 0, 0.1, 42)
	if err != nil {
		t.Fatalf("RandomNormal failed: %v", err)
	}

	b, _ := RandomNormal([]int{4, 4}, 0, 0.1, 42)
	for i := range a.Float32s() {
		if a.Float32s()[i] != b.Float32s()[i] {
			t.Fatal("Same seed should produce identical tensors")
		}
	}
}

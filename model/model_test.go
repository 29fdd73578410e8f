package model

import (
	"math"
	"testing"

	"github.com/humachine/humachine/tensor"
)

func TestDenseForward(t *testing.T) {
	layer, err := NewDense("test", 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Fix weights to a known matrix for a hand-checked result.
	copy(layer.weight.Data, []float32{1, 2, 3, 4})
	copy(layer.bias.Data, []float32{0.5, -0.5})

	x, _ := tensor.FromFloat32([]int{1, 2}, []float32{1, 1})
	out, err := layer.Forward(x)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	// [1 1] * [[1 2][3 4]] + [0.5 -0.5] = [4.5 5.5]
	got := out.Float32s()
	if got[0] != 4.5 || got[1] != 5.5 {
		t.Errorf("Forward = %v, expected [4.5 5.5]", got)
	}
}

func TestDenseBackwardGradients(t *testing.T) {
	layer, err := NewDense("test", 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	copy(layer.weight.Data, []float32{2, 3})
	copy(layer.bias.Data, []float32{0})

	x, _ := tensor.FromFloat32([]int{1, 2}, []float32{5, 7})
	if _, err := layer.Forward(x); err != nil {
		t.Fatal(err)
	}

	gradOut, _ := tensor.FromFloat32([]int{1, 1}, []float32{1})
	gradIn, err := layer.Backward(gradOut)
	if err != nil {
		t.Fatalf("Backward failed: %v", err)
	}

	// dW = x^T g = [5 7], db = [1], dx = g W^T = [2 3]
	if layer.weight.Grad[0] != 5 || layer.weight.Grad[1] != 7 {
		t.Errorf("weight grad = %v, expected [5 7]", layer.weight.Grad)
	}
	if layer.bias.Grad[0] != 1 {
		t.Errorf("bias grad = %v, expected [1]", layer.bias.Grad)
	}
	if gradIn.Float32s()[0] != 2 || gradIn.Float32s()[1] != 3 {
		t.Errorf("input grad = %v, expected [2 3]", gradIn.Float32s())
	}
}

func TestDenseBackwardBeforeForward(t *testing.T) {
	layer, _ := NewDense("test", 2, 1, 1)
	grad, _ := tensor.FromFloat32([]int{1, 1}, []float32{1})
	if _, err := layer.Backward(grad); err == nil {
		t.Error("expected error for Backward before Forward")
	}
}

func TestDenseShapeMismatch(t *testing.T) {
	layer, _ := NewDense("test", 3, 2, 1)
	x, _ := tensor.FromFloat32([]int{1, 2}, []float32{1, 2})
	if _, err := layer.Forward(x); err == nil {
		t.Error("expected error for input width mismatch")
	}
}

func TestReLU(t *testing.T) {
	layer := NewReLU()

	x, _ := tensor.FromFloat32([]int{1, 4}, []float32{-1, 0, 2, -3})
	out, err := layer.Forward(x)
	if err != nil {
		t.Fatal(err)
	}

	want := []float32{0, 0, 2, 0}
	for i, v := range out.Float32s() {
		if v != want[i] {
			t.Errorf("Forward[%d] = %f, expected %f", i, v, want[i])
		}
	}

	grad, _ := tensor.FromFloat32([]int{1, 4}, []float32{1, 1, 1, 1})
	gradIn, err := layer.Backward(grad)
	if err != nil {
		t.Fatal(err)
	}

	wantGrad := []float32{0, 0, 1, 0}
	for i, v := range gradIn.Float32s() {
		if v != wantGrad[i] {
			t.Errorf("Backward[%d] = %f, expected %f", i, v, wantGrad[i])
		}
	}
}

func TestSequentialModeToggle(t *testing.T) {
	m, err := Build(LogisticRegression, 4, 2, 7)
	if err != nil {
		t.Fatal(err)
	}

	if !m.Training() {
		t.Error("new model should start in training mode")
	}
	m.SetTraining(false)
	if m.Training() {
		t.Error("SetTraining(false) should switch to inference mode")
	}
}

func TestBuildArchitectures(t *testing.T) {
	tests := []struct {
		arch       Arch
		paramCount int
	}{
		// LogisticRegression: 4*2 weights + 2 bias
		{LogisticRegression, 2},
		// MLP: two dense layers
		{MLP, 4},
		// ImageMLP: three dense layers
		{ImageMLP, 6},
	}

	for _, test := range tests {
		m, err := Build(test.arch, 4, 2, 1)
		if err != nil {
			t.Fatalf("Build(%s) failed: %v", test.arch, err)
		}
		if len(m.Params()) != test.paramCount {
			t.Errorf("%s: %d parameter tensors, expected %d", test.arch, len(m.Params()), test.paramCount)
		}
		if m.Name() != test.arch.String() {
			t.Errorf("%s: model name %q", test.arch, m.Name())
		}
	}
}

func TestBuildValidation(t *testing.T) {
	if _, err := Build(LogisticRegression, 0, 2, 1); err == nil {
		t.Error("expected error for zero input width")
	}
	if _, err := Build(LogisticRegression, 4, 1, 1); err == nil {
		t.Error("expected error for single-class model")
	}
	if _, err := Build(Arch(99), 4, 2, 1); err == nil {
		t.Error("expected error for unknown architecture")
	}
}

func TestParseArch(t *testing.T) {
	tests := []struct {
		name string
		want Arch
		ok   bool
	}{
		{"logistic_regression", LogisticRegression, true},
		{"mlp", MLP, true},
		{"image_mlp", ImageMLP, true},
		{"transformer", 0, false},
	}

	for _, test := range tests {
		got, err := ParseArch(test.name)
		if test.ok && (err != nil || got != test.want) {
			t.Errorf("ParseArch(%q) = %v, %v", test.name, got, err)
		}
		if !test.ok && err == nil {
			t.Errorf("ParseArch(%q) should fail", test.name)
		}
	}
}

func TestSequentialBuildReproducible(t *testing.T) {
	a, err := Build(MLP, 8, 3, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(MLP, 8, 3, 42)
	if err != nil {
		t.Fatal(err)
	}

	pa, pb := a.Params(), b.Params()
	for i := range pa {
		for j := range pa[i].Data {
			if pa[i].Data[j] != pb[i].Data[j] {
				t.Fatal("same seed must yield identical initialization")
			}
		}
	}
}

func TestZeroGrad(t *testing.T) {
	m, err := Build(LogisticRegression, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	x, _ := tensor.FromFloat32([]int{1, 2}, []float32{1, 2})
	if _, err := m.Forward(x); err != nil {
		t.Fatal(err)
	}
	grad, _ := tensor.FromFloat32([]int{1, 2}, []float32{1, 1})
	if err := m.Backward(grad); err != nil {
		t.Fatal(err)
	}

	var nonZero bool
	for _, p := range m.Params() {
		for _, g := range p.Grad {
			if math.Abs(float64(g)) > 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Fatal("expected non-zero gradients after backward")
	}

	m.ZeroGrad()
	for _, p := range m.Params() {
		for i, g := range p.Grad {
			if g != 0 {
				t.Fatalf("parameter %s grad[%d] = %f after ZeroGrad", p.Name, i, g)
			}
		}
	}
}

package vision

import (
	"math"
	"testing"
)

func TestProjectSymmetricInRange(t *testing.T) {
	p := NewProjector(false, 0)

	vec := []float32{0.1, -2.5, 3.0, 0.7, 1.2}
	img, err := p.Project(vec)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	v := len(vec)
	if img.Shape[0] != 1 || img.Shape[1] != v || img.Shape[2] != v {
		t.Fatalf("expected shape [1 %d %d], got %v", v, v, img.Shape)
	}

	data := img.Float32s()
	for i := 0; i < v; i++ {
		for j := 0; j < v; j++ {
			a := data[i*v+j]
			b := data[j*v+i]
			if a != b {
				t.Errorf("matrix not symmetric at (%d,%d): %f vs %f", i, j, a, b)
			}
			if a < 0 || a > 255 {
				t.Errorf("value %f at (%d,%d) outside [0,255]", a, i, j)
			}
		}
	}
}

func TestProjectDeterministic(t *testing.T) {
	p := NewProjector(true, 16)

	vec := []float32{1, 2, 3, 4}
	a, err := p.Project(vec)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Project(vec)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Float32s() {
		if a.Float32s()[i] != b.Float32s()[i] {
			t.Fatal("projection must be deterministic")
		}
	}
}

func TestProjectConstantVector(t *testing.T) {
	p := NewProjector(false, 0)

	img, err := p.Project([]float32{3, 3, 3})
	if err != nil {
		t.Fatalf("constant vector must not be an error: %v", err)
	}

	for i, v := range img.Float32s() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("value %d is not finite: %f", i, v)
		}
		if v != midpointValue {
			t.Errorf("value %d = %f, expected midpoint %f", i, v, midpointValue)
		}
	}
}

func TestProjectEmptyVector(t *testing.T) {
	p := NewProjector(false, 0)
	if _, err := p.Project(nil); err == nil {
		t.Fatal("expected error for empty vector")
	}
}

func TestProjectResize(t *testing.T) {
	p := NewProjector(true, 10)

	img, err := p.Project([]float32{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}

	if img.Shape[1] != 10 || img.Shape[2] != 10 {
		t.Errorf("expected 10x10 image, got %v", img.Shape)
	}
}

func TestProjectorOutputSize(t *testing.T) {
	resized := NewProjector(true, 0)
	h, w := resized.OutputSize(64)
	if h != DefaultCanvasSize || w != DefaultCanvasSize {
		t.Errorf("resized OutputSize = (%d,%d), expected (%d,%d)", h, w, DefaultCanvasSize, DefaultCanvasSize)
	}

	native := NewProjector(false, 0)
	h, w = native.OutputSize(64)
	if h != 64 || w != 64 {
		t.Errorf("native OutputSize = (%d,%d), expected (64,64)", h, w)
	}
}

func TestIsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
		want bool
	}{
		{"constant", []float32{2, 2, 2}, true},
		{"varying", []float32{1, 2}, false},
		{"single", []float32{5}, true},
		{"empty", nil, false},
	}

	for _, test := range tests {
		if got := IsDegenerate(test.vec); got != test.want {
			t.Errorf("%s: IsDegenerate = %v, expected %v", test.name, got, test.want)
		}
	}
}

func TestResampleGrayPreservesConstant(t *testing.T) {
	src := make([]float32, 4*4)
	for i := range src {
		src[i] = 42
	}

	dst := resampleGray(src, 4, 4, 7, 7)
	if len(dst) != 49 {
		t.Fatalf("expected 49 pixels, got %d", len(dst))
	}
	for i, v := range dst {
		if v != 42 {
			t.Errorf("pixel %d = %f, expected 42", i, v)
		}
	}
}

package model

import (
	"fmt"
	"math"

	"github.com/humachine/humachine/tensor"
)

// Layer is one differentiable stage of a model. Forward consumes a
// [batch, in] tensor and produces [batch, out]; Backward consumes the
// gradient of the loss with respect to the output, accumulates parameter
// gradients, and returns the gradient with respect to the input.
type Layer interface {
	Forward(x *tensor.Tensor) (*tensor.Tensor, error)
	Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error)
	Params() []*Parameter
}

// Dense is a fully connected layer: y = xW + b.
type Dense struct {
	InDim  int
	OutDim int

	weight *Parameter
	bias   *Parameter

	// input from the most recent Forward, needed by Backward.
	lastInput *tensor.Tensor
}

// NewDense creates a dense layer with Xavier-initialized weights drawn
// from the given seed, so model construction is reproducible.
func NewDense(name string, inDim, outDim int, seed int64) (*Dense, error) {
	if inDim <= 0 || outDim <= 0 {
		return nil, fmt.Errorf("dense layer dimensions must be positive, got %dx%d", inDim, outDim)
	}

	std := float32(math.Sqrt(2.0 / float64(inDim+outDim)))
	w, err := tensor.RandomNormal([]int{inDim, outDim}, 0, std, seed)
	if err != nil {
		return nil, err
	}

	return &Dense{
		InDim:  inDim,
		OutDim: outDim,
		weight: NewParameter(name+".weight", []int{inDim, outDim}, w.Float32s()),
		bias:   NewParameter(name+".bias", []int{outDim}, make([]float32, outDim)),
	}, nil
}

// Forward computes xW + b for a [batch, in] input.
func (l *Dense) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Shape) != 2 || x.Shape[1] != l.InDim {
		return nil, fmt.Errorf("dense layer expects input shape [batch %d], got %v", l.InDim, x.Shape)
	}

	w, err := tensor.FromFloat32([]int{l.InDim, l.OutDim}, l.weight.Data)
	if err != nil {
		return nil, err
	}
	out, err := tensor.MatMul(x, w)
	if err != nil {
		return nil, err
	}

	batch := x.Shape[0]
	outData := out.Float32s()
	for i := 0; i < batch; i++ {
		for j := 0; j < l.OutDim; j++ {
			outData[i*l.OutDim+j] += l.bias.Data[j]
		}
	}

	l.lastInput = x
	return out, nil
}

// Backward accumulates dW = x^T g and db = column sums of g, and returns
// dx = g W^T.
func (l *Dense) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if l.lastInput == nil {
		return nil, fmt.Errorf("Backward called before Forward on dense layer")
	}
	if len(gradOut.Shape) != 2 || gradOut.Shape[1] != l.OutDim {
		return nil, fmt.Errorf("dense layer expects gradient shape [batch %d], got %v", l.OutDim, gradOut.Shape)
	}

	xT, err := tensor.Transpose2D(l.lastInput)
	if err != nil {
		return nil, err
	}
	gradW, err := tensor.MatMul(xT, gradOut)
	if err != nil {
		return nil, err
	}
	for i, v := range gradW.Float32s() {
		l.weight.Grad[i] += v
	}

	batch := gradOut.Shape[0]
	g := gradOut.Float32s()
	for i := 0; i < batch; i++ {
		for j := 0; j < l.OutDim; j++ {
			l.bias.Grad[j] += g[i*l.OutDim+j]
		}
	}

	w, err := tensor.FromFloat32([]int{l.InDim, l.OutDim}, l.weight.Data)
	if err != nil {
		return nil, err
	}
	wT, err := tensor.Transpose2D(w)
	if err != nil {
		return nil, err
	}
	return tensor.MatMul(gradOut, wT)
}

// Params returns the layer's weight and bias.
func (l *Dense) Params() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// ReLU is the elementwise max(0, x) activation.
type ReLU struct {
	lastInput *tensor.Tensor
}

// NewReLU creates a ReLU activation layer.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward zeroes negative inputs.
func (l *ReLU) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := tensor.Clone(x)
	if err != nil {
		return nil, err
	}
	data := out.Float32s()
	for i, v := range data {
		if v < 0 {
			data[i] = 0
		}
	}
	l.lastInput = x
	return out, nil
}

// Backward passes gradients through where the input was positive.
func (l *ReLU) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if l.lastInput == nil {
		return nil, fmt.Errorf("Backward called before Forward on ReLU layer")
	}

	out, err := tensor.Clone(gradOut)
	if err != nil {
		return nil, err
	}
	in := l.lastInput.Float32s()
	data := out.Float32s()
	for i := range data {
		if in[i] <= 0 {
			data[i] = 0
		}
	}
	return out, nil
}

// Params returns nil: ReLU has no trainable state.
func (l *ReLU) Params() []*Parameter {
	return nil
}

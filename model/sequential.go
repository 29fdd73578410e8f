package model

import (
	"fmt"

	"github.com/humachine/humachine/tensor"
)

// Sequential chains layers into a model. It carries the training/inference
// mode flag that the harness toggles around evaluation.
type Sequential struct {
	name     string
	layers   []Layer
	training bool
}

// NewSequential composes layers into a named model, initially in training
// mode.
func NewSequential(name string, layers ...Layer) (*Sequential, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("a model needs at least one layer")
	}
	return &Sequential{name: name, layers: layers, training: true}, nil
}

// Name returns the model name used in experiment metadata.
func (m *Sequential) Name() string {
	return m.name
}

// Forward runs the input through every layer in order and returns the
// logits.
func (m *Sequential) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	for i, layer := range m.layers {
		x, err = layer.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("layer %d forward: %w", i, err)
		}
	}
	return x, nil
}

// Backward propagates the loss gradient through the layers in reverse,
// accumulating parameter gradients.
func (m *Sequential) Backward(gradOut *tensor.Tensor) error {
	var err error
	for i := len(m.layers) - 1; i >= 0; i-- {
		gradOut, err = m.layers[i].Backward(gradOut)
		if err != nil {
			return fmt.Errorf("layer %d backward: %w", i, err)
		}
	}
	return nil
}

// Params returns every trainable parameter across all layers.
func (m *Sequential) Params() []*Parameter {
	var params []*Parameter
	for _, layer := range m.layers {
		params = append(params, layer.Params()...)
	}
	return params
}

// ZeroGrad clears all accumulated gradients.
func (m *Sequential) ZeroGrad() {
	for _, p := range m.Params() {
		p.ZeroGrad()
	}
}

// SetTraining switches between training and inference mode.
func (m *Sequential) SetTraining(training bool) {
	m.training = training
}

// Training reports the current mode.
func (m *Sequential) Training() bool {
	return m.training
}

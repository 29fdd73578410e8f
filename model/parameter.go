// Package model defines trainable models as compositions of layers, with
// an explicit factory table for the supported architectures.
package model

// Parameter is one trainable tensor: flat weight values plus an equally
// shaped gradient accumulator.
type Parameter struct {
	Name  string
	Shape []int
	Data  []float32
	Grad  []float32
}

// NewParameter allocates a parameter with zeroed gradients.
func NewParameter(name string, shape []int, data []float32) *Parameter {
	return &Parameter{
		Name:  name,
		Shape: shape,
		Data:  data,
		Grad:  make([]float32, len(data)),
	}
}

// ZeroGrad clears the accumulated gradient.
func (p *Parameter) ZeroGrad() {
	for i := range p.Grad {
		p.Grad[i] = 0
	}
}

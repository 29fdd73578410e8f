package optimizer

import (
	"fmt"

	"github.com/humachine/humachine/model"
)

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LearningRate float32
	Momentum     float32 // momentum coefficient, 0 for vanilla SGD
	WeightDecay  float32 // L2 regularization coefficient
}

// DefaultSGDConfig returns the default SGD configuration.
func DefaultSGDConfig() SGDConfig {
	return SGDConfig{
		LearningRate: 0.01,
		Momentum:     0.0,
		WeightDecay:  0.0,
	}
}

// SGD implements stochastic gradient descent with optional momentum.
type SGD struct {
	config SGDConfig

	// Velocity buffers keyed by parameter name, allocated lazily on the
	// first step so the optimizer needs no shape information up front.
	velocity map[string][]float32
}

// NewSGD creates an SGD optimizer from the given configuration.
func NewSGD(config SGDConfig) (*SGD, error) {
	if err := validateLearningRate(config.LearningRate); err != nil {
		return nil, err
	}
	if config.Momentum < 0 || config.Momentum >= 1 {
		return nil, fmt.Errorf("momentum must be in [0, 1), got %f", config.Momentum)
	}
	return &SGD{
		config:   config,
		velocity: make(map[string][]float32),
	}, nil
}

func (o *SGD) Name() string { return "sgd" }

func (o *SGD) LearningRate() float32 { return o.config.LearningRate }

func (o *SGD) SetLearningRate(lr float32) { o.config.LearningRate = lr }

// Step applies one SGD update in place.
func (o *SGD) Step(params []*model.Parameter) error {
	for _, p := range params {
		if len(p.Grad) != len(p.Data) {
			return fmt.Errorf("parameter %s: gradient length %d does not match data length %d",
				p.Name, len(p.Grad), len(p.Data))
		}

		if o.config.Momentum == 0 {
			for i, g := range p.Grad {
				if o.config.WeightDecay > 0 {
					g += o.config.WeightDecay * p.Data[i]
				}
				p.Data[i] -= o.config.LearningRate * g
			}
			continue
		}

		v, ok := o.velocity[p.Name]
		if !ok {
			v = make([]float32, len(p.Data))
			o.velocity[p.Name] = v
		}
		for i, g := range p.Grad {
			if o.config.WeightDecay > 0 {
				g += o.config.WeightDecay * p.Data[i]
			}
			v[i] = o.config.Momentum*v[i] + g
			p.Data[i] -= o.config.LearningRate * v[i]
		}
	}
	return nil
}

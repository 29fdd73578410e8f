package optimizer

import (
	"fmt"
	"math"

	"github.com/humachine/humachine/model"
)

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LearningRate float32
	Beta1        float32 // first moment decay rate
	Beta2        float32 // second moment decay rate
	Epsilon      float32 // numerical stability constant
	WeightDecay  float32 // L2 regularization coefficient
}

// DefaultAdamConfig returns the default Adam configuration.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		WeightDecay:  0.0,
	}
}

type adamState struct {
	m []float32 // first moment estimate
	v []float32 // second moment estimate
}

// Adam implements the Adam update rule with bias-corrected moment
// estimates.
type Adam struct {
	config AdamConfig
	state  map[string]*adamState
	steps  int
}

// NewAdam creates an Adam optimizer from the given configuration.
func NewAdam(config AdamConfig) (*Adam, error) {
	if err := validateLearningRate(config.LearningRate); err != nil {
		return nil, err
	}
	if config.Beta1 < 0 || config.Beta1 >= 1 {
		return nil, fmt.Errorf("beta1 must be in [0, 1), got %f", config.Beta1)
	}
	if config.Beta2 < 0 || config.Beta2 >= 1 {
		return nil, fmt.Errorf("beta2 must be in [0, 1), got %f", config.Beta2)
	}
	if config.Epsilon <= 0 {
		return nil, fmt.Errorf("epsilon must be positive, got %g", config.Epsilon)
	}
	return &Adam{
		config: config,
		state:  make(map[string]*adamState),
	}, nil
}

func (o *Adam) Name() string { return "adam" }

func (o *Adam) LearningRate() float32 { return o.config.LearningRate }

func (o *Adam) SetLearningRate(lr float32) { o.config.LearningRate = lr }

// Step applies one Adam update in place.
func (o *Adam) Step(params []*model.Parameter) error {
	o.steps++

	// Bias correction shared by every parameter in this step.
	correction1 := 1 - math.Pow(float64(o.config.Beta1), float64(o.steps))
	correction2 := 1 - math.Pow(float64(o.config.Beta2), float64(o.steps))

	for _, p := range params {
		if len(p.Grad) != len(p.Data) {
			return fmt.Errorf("parameter %s: gradient length %d does not match data length %d",
				p.Name, len(p.Grad), len(p.Data))
		}

		s, ok := o.state[p.Name]
		if !ok {
			s = &adamState{
				m: make([]float32, len(p.Data)),
				v: make([]float32, len(p.Data)),
			}
			o.state[p.Name] = s
		}

		for i, g := range p.Grad {
			if o.config.WeightDecay > 0 {
				g += o.config.WeightDecay * p.Data[i]
			}

			s.m[i] = o.config.Beta1*s.m[i] + (1-o.config.Beta1)*g
			s.v[i] = o.config.Beta2*s.v[i] + (1-o.config.Beta2)*g*g

			mHat := float64(s.m[i]) / correction1
			vHat := float64(s.v[i]) / correction2
			p.Data[i] -= o.config.LearningRate * float32(mHat/(math.Sqrt(vHat)+float64(o.config.Epsilon)))
		}
	}
	return nil
}

// Package optimizer provides gradient-descent parameter update rules for
// training classifiers. Optimizers operate in place on the flat parameter
// slices produced by the model package.
package optimizer

import (
	"fmt"

	"github.com/humachine/humachine/model"
)

// Optimizer applies one gradient update to a set of parameters.
type Optimizer interface {
	// Step updates every parameter from its accumulated gradient.
	Step(params []*model.Parameter) error

	// Name identifies the update rule, e.g. "sgd" or "adam".
	Name() string

	// LearningRate returns the current step size.
	LearningRate() float32

	// SetLearningRate changes the step size for subsequent updates.
	SetLearningRate(lr float32)
}

// New constructs an optimizer by name with the given learning rate and
// the remaining hyperparameters at their defaults.
func New(name string, lr float32) (Optimizer, error) {
	switch name {
	case "sgd":
		config := DefaultSGDConfig()
		config.LearningRate = lr
		return NewSGD(config)
	case "adam":
		config := DefaultAdamConfig()
		config.LearningRate = lr
		return NewAdam(config)
	default:
		return nil, fmt.Errorf("unknown optimizer %q (supported: sgd, adam)", name)
	}
}

func validateLearningRate(lr float32) error {
	if lr <= 0 {
		return fmt.Errorf("learning rate must be positive, got %f", lr)
	}
	return nil
}

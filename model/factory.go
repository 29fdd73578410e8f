package model

import (
	"fmt"
)

// Arch identifies one of the supported model architectures.
type Arch int

const (
	// LogisticRegression is a single linear layer over the feature vector.
	LogisticRegression Arch = iota
	// MLP adds one hidden ReLU layer of 128 units.
	MLP
	// ImageMLP is a deeper perceptron sized for flattened image input.
	ImageMLP
)

// String returns the configuration name of the architecture; it round-trips
// through ParseArch.
func (a Arch) String() string {
	switch a {
	case LogisticRegression:
		return "logistic_regression"
	case MLP:
		return "mlp"
	case ImageMLP:
		return "image_mlp"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// ParseArch resolves an architecture name from configuration.
func ParseArch(name string) (Arch, error) {
	switch name {
	case "logistic_regression":
		return LogisticRegression, nil
	case "mlp":
		return MLP, nil
	case "image_mlp":
		return ImageMLP, nil
	default:
		return 0, fmt.Errorf("unknown model architecture %q", name)
	}
}

// BuilderFunc constructs a model for the given input width and class count.
type BuilderFunc func(inputDim, numClasses int, seed int64) (*Sequential, error)

// builders is the static architecture table. Adding a model means adding a
// row here; there is no implicit registration.
var builders = map[Arch]BuilderFunc{
	LogisticRegression: buildLogisticRegression,
	MLP:                buildMLP,
	ImageMLP:           buildImageMLP,
}

// Build constructs one of the supported architectures.
func Build(arch Arch, inputDim, numClasses int, seed int64) (*Sequential, error) {
	builder, ok := builders[arch]
	if !ok {
		return nil, fmt.Errorf("no builder for architecture %s", arch)
	}
	if inputDim <= 0 {
		return nil, fmt.Errorf("input width must be positive, got %d", inputDim)
	}
	if numClasses < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}
	return builder(inputDim, numClasses, seed)
}

func buildLogisticRegression(inputDim, numClasses int, seed int64) (*Sequential, error) {
	linear, err := NewDense("linear", inputDim, numClasses, seed)
	if err != nil {
		return nil, err
	}
	return NewSequential(LogisticRegression.String(), linear)
}

func buildMLP(inputDim, numClasses int, seed int64) (*Sequential, error) {
	const hidden = 128

	fc1, err := NewDense("fc1", inputDim, hidden, seed)
	if err != nil {
		return nil, err
	}
	fc2, err := NewDense("fc2", hidden, numClasses, seed+1)
	if err != nil {
		return nil, err
	}
	return NewSequential(MLP.String(), fc1, NewReLU(), fc2)
}

func buildImageMLP(inputDim, numClasses int, seed int64) (*Sequential, error) {
	const (
		hidden1 = 256
		hidden2 = 64
	)

	fc1, err := NewDense("fc1", inputDim, hidden1, seed)
	if err != nil {
		return nil, err
	}
	fc2, err := NewDense("fc2", hidden1, hidden2, seed+1)
	if err != nil {
		return nil, err
	}
	fc3, err := NewDense("fc3", hidden2, numClasses, seed+2)
	if err != nil {
		return nil, err
	}
	return NewSequential(ImageMLP.String(), fc1, NewReLU(), fc2, NewReLU(), fc3)
}

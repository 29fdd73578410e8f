// Package checkpoints saves and restores trained model weights as JSON,
// so a classifier trained in one run can be evaluated or resumed later.
package checkpoints

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/humachine/humachine/model"
)

// WeightTensor is one named parameter with its shape and flat values.
type WeightTensor struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

// Metadata describes when and by what the checkpoint was written.
type Metadata struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description,omitempty"`
}

// Checkpoint is a complete snapshot of a model's trainable state plus
// the construction arguments needed to rebuild it.
type Checkpoint struct {
	Arch       string         `json:"arch"`
	InputDim   int            `json:"input_dim"`
	NumClasses int            `json:"num_classes"`
	Weights    []WeightTensor `json:"weights"`
	Metadata   Metadata       `json:"metadata"`
}

const formatVersion = "1.0"

// Snapshot captures the model's current parameters. inputDim and
// numClasses must match the values the model was built with.
func Snapshot(m *model.Sequential, arch model.Arch, inputDim, numClasses int, description string) *Checkpoint {
	params := m.Params()
	weights := make([]WeightTensor, len(params))
	for i, p := range params {
		data := make([]float32, len(p.Data))
		copy(data, p.Data)
		shape := make([]int, len(p.Shape))
		copy(shape, p.Shape)
		weights[i] = WeightTensor{Name: p.Name, Shape: shape, Data: data}
	}

	return &Checkpoint{
		Arch:       arch.String(),
		InputDim:   inputDim,
		NumClasses: numClasses,
		Weights:    weights,
		Metadata: Metadata{
			Version:     formatVersion,
			CreatedAt:   time.Now().UTC(),
			Description: description,
		},
	}
}

// Save writes the checkpoint to path as indented JSON.
func (c *Checkpoint) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %v", err)
	}
	return nil
}

// Load reads a checkpoint previously written by Save.
func Load(path string) (*Checkpoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file: %v", err)
	}
	defer file.Close()

	var checkpoint Checkpoint
	if err := json.NewDecoder(file).Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %v", err)
	}
	return &checkpoint, nil
}

// Restore rebuilds the checkpointed model and installs its weights. Every
// parameter of the rebuilt model must be present in the checkpoint with a
// matching length.
func (c *Checkpoint) Restore() (*model.Sequential, error) {
	arch, err := model.ParseArch(c.Arch)
	if err != nil {
		return nil, err
	}

	m, err := model.Build(arch, c.InputDim, c.NumClasses, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild %s model: %w", c.Arch, err)
	}

	byName := make(map[string]*WeightTensor, len(c.Weights))
	for i := range c.Weights {
		byName[c.Weights[i].Name] = &c.Weights[i]
	}

	for _, p := range m.Params() {
		w, ok := byName[p.Name]
		if !ok {
			return nil, fmt.Errorf("checkpoint missing parameter %s", p.Name)
		}
		if len(w.Data) != len(p.Data) {
			return nil, fmt.Errorf("parameter %s has %d values in checkpoint, model expects %d",
				p.Name, len(w.Data), len(p.Data))
		}
		copy(p.Data, w.Data)
	}
	return m, nil
}

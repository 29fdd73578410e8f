package training

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// EpochMetrics is one epoch's evaluation snapshot over both splits.
type EpochMetrics struct {
	TrainLoss     float64 `json:"train_loss"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestLoss      float64 `json:"test_loss"`
	TestAccuracy  float64 `json:"test_accuracy"`
}

// ExperimentResult is the append-only metrics history of one training
// run. Run metadata is fixed at construction; the per-epoch series grow
// by exactly one entry each time RecordEpoch is called.
type ExperimentResult struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`

	ModelName    string  `json:"model_name"`
	LearningRate float32 `json:"learning_rate"`
	BatchSize    int     `json:"batch_size"`
	Optimizer    string  `json:"optimizer"`
	Criterion    string  `json:"criterion"`
	Epochs       int     `json:"epochs"`

	TrainLosses     []float64 `json:"train_losses"`
	TrainAccuracies []float64 `json:"train_accuracies"`
	TestLosses      []float64 `json:"test_losses"`
	TestAccuracies  []float64 `json:"test_accuracies"`

	// Confusion counts per epoch, keyed predicted class then true class.
	TrainConfusions [][][]int `json:"train_confusions"`
	TestConfusions  [][][]int `json:"test_confusions"`
}

// NewExperimentResult creates an empty result with a fresh run ID.
func NewExperimentResult(modelName string, lr float32, batchSize int, optimizerName, criterion string, epochs int) *ExperimentResult {
	return &ExperimentResult{
		RunID:        uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		ModelName:    modelName,
		LearningRate: lr,
		BatchSize:    batchSize,
		Optimizer:    optimizerName,
		Criterion:    criterion,
		Epochs:       epochs,
	}
}

// RecordEpoch appends one epoch's metrics and confusion breakdowns. The
// confusion matrices are copied, so the caller may keep mutating them.
func (r *ExperimentResult) RecordEpoch(m EpochMetrics, trainCM, testCM *ConfusionMatrix) {
	r.TrainLosses = append(r.TrainLosses, m.TrainLoss)
	r.TrainAccuracies = append(r.TrainAccuracies, m.TrainAccuracy)
	r.TestLosses = append(r.TestLosses, m.TestLoss)
	r.TestAccuracies = append(r.TestAccuracies, m.TestAccuracy)
	r.TrainConfusions = append(r.TrainConfusions, trainCM.Rows())
	r.TestConfusions = append(r.TestConfusions, testCM.Rows())
}

// RecordedEpochs returns how many epochs have been recorded so far.
func (r *ExperimentResult) RecordedEpochs() int {
	return len(r.TrainLosses)
}

// SaveJSON writes the result to path as indented JSON.
func (r *ExperimentResult) SaveJSON(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode result: %v", err)
	}
	return nil
}

// LoadExperimentResult reads a result previously written by SaveJSON.
func LoadExperimentResult(path string) (*ExperimentResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %v", err)
	}
	defer file.Close()

	var result ExperimentResult
	if err := json.NewDecoder(file).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %v", err)
	}
	return &result, nil
}

package training

import "fmt"

// ConfusionMatrix accumulates prediction counts. Counts are keyed by
// predicted class first, then true class, so Count(p, t) reads "how often
// the model said p when the answer was t".
type ConfusionMatrix struct {
	numClasses int
	counts     []int
}

// NewConfusionMatrix creates an empty matrix for the given class count.
func NewConfusionMatrix(numClasses int) (*ConfusionMatrix, error) {
	if numClasses < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}
	return &ConfusionMatrix{
		numClasses: numClasses,
		counts:     make([]int, numClasses*numClasses),
	}, nil
}

// Add records one prediction.
func (cm *ConfusionMatrix) Add(predicted, actual int) error {
	if predicted < 0 || predicted >= cm.numClasses {
		return fmt.Errorf("predicted class %d out of range [0, %d)", predicted, cm.numClasses)
	}
	if actual < 0 || actual >= cm.numClasses {
		return fmt.Errorf("actual class %d out of range [0, %d)", actual, cm.numClasses)
	}
	cm.counts[predicted*cm.numClasses+actual]++
	return nil
}

// Count returns how many times predicted was reported when actual was
// the true class.
func (cm *ConfusionMatrix) Count(predicted, actual int) int {
	return cm.counts[predicted*cm.numClasses+actual]
}

// Total returns the number of recorded predictions.
func (cm *ConfusionMatrix) Total() int {
	total := 0
	for _, c := range cm.counts {
		total += c
	}
	return total
}

// Correct returns the number of diagonal entries.
func (cm *ConfusionMatrix) Correct() int {
	correct := 0
	for i := 0; i < cm.numClasses; i++ {
		correct += cm.counts[i*cm.numClasses+i]
	}
	return correct
}

// Accuracy returns the fraction of correct predictions, or 0 when the
// matrix is empty.
func (cm *ConfusionMatrix) Accuracy() float64 {
	total := cm.Total()
	if total == 0 {
		return 0
	}
	return float64(cm.Correct()) / float64(total)
}

// NumClasses returns the class count the matrix was built for.
func (cm *ConfusionMatrix) NumClasses() int {
	return cm.numClasses
}

// Clone returns an independent copy of the matrix.
func (cm *ConfusionMatrix) Clone() *ConfusionMatrix {
	counts := make([]int, len(cm.counts))
	copy(counts, cm.counts)
	return &ConfusionMatrix{numClasses: cm.numClasses, counts: counts}
}

// Rows returns the counts as a [predicted][actual] grid, for recording
// into experiment results.
func (cm *ConfusionMatrix) Rows() [][]int {
	rows := make([][]int, cm.numClasses)
	for p := 0; p < cm.numClasses; p++ {
		rows[p] = make([]int, cm.numClasses)
		copy(rows[p], cm.counts[p*cm.numClasses:(p+1)*cm.numClasses])
	}
	return rows
}

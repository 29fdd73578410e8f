package training

import (
	"fmt"
	"math"

	"github.com/humachine/humachine/tensor"
)

// SoftmaxCrossEntropy computes the mean cross-entropy loss of a batch of
// logits against integer labels, along with the gradient of that loss
// with respect to the logits. logits must have shape [batch, classes].
//
// The softmax and the log are fused: each row is shifted by its maximum
// before exponentiation so large logits cannot overflow.
func SoftmaxCrossEntropy(logits *tensor.Tensor, labels []int) (float32, *tensor.Tensor, error) {
	if len(logits.Shape) != 2 {
		return 0, nil, fmt.Errorf("logits must be 2-D, got shape %v", logits.Shape)
	}
	batch, classes := logits.Shape[0], logits.Shape[1]
	if len(labels) != batch {
		return 0, nil, fmt.Errorf("got %d labels for batch of %d", len(labels), batch)
	}

	values := logits.Float32s()
	gradData := make([]float32, len(values))
	var totalLoss float64

	for i := 0; i < batch; i++ {
		label := labels[i]
		if label < 0 || label >= classes {
			return 0, nil, fmt.Errorf("label %d out of range for %d classes", label, classes)
		}
		row := values[i*classes : (i+1)*classes]

		maxLogit := row[0]
		for _, v := range row[1:] {
			if v > maxLogit {
				maxLogit = v
			}
		}

		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxLogit))
		}

		// loss_i = log(sum exp) - (logit_label - max)
		totalLoss += math.Log(sumExp) - float64(row[label]-maxLogit)

		// grad = (softmax - onehot) / batch
		for j, v := range row {
			p := math.Exp(float64(v-maxLogit)) / sumExp
			g := p
			if j == label {
				g -= 1
			}
			gradData[i*classes+j] = float32(g / float64(batch))
		}
	}

	grad, err := tensor.FromFloat32([]int{batch, classes}, gradData)
	if err != nil {
		return 0, nil, err
	}
	return float32(totalLoss / float64(batch)), grad, nil
}

// Predictions returns the argmax class of each logit row.
func Predictions(logits *tensor.Tensor) ([]int, error) {
	if len(logits.Shape) != 2 {
		return nil, fmt.Errorf("logits must be 2-D, got shape %v", logits.Shape)
	}
	batch, classes := logits.Shape[0], logits.Shape[1]
	values := logits.Float32s()

	preds := make([]int, batch)
	for i := 0; i < batch; i++ {
		row := values[i*classes : (i+1)*classes]
		best := 0
		for j, v := range row {
			if v > row[best] {
				best = j
			}
		}
		preds[i] = best
	}
	return preds, nil
}

package training

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/humachine/humachine/model"
	"github.com/humachine/humachine/optimizer"
)

// DefaultBatchSize is used when the harness config leaves BatchSize zero.
const DefaultBatchSize = 32

const criterionName = "softmax_cross_entropy"

// HarnessConfig fixes a training run: the splits, the duration and the
// batching. Seed drives the per-epoch shuffle of the training split.
type HarnessConfig struct {
	Epochs    int
	BatchSize int
	Seed      int64
}

// Harness drives mini-batch training of a model over a train/test split.
// Each epoch runs every training batch through a gradient step, then
// evaluates both full splits in inference mode and appends the metrics
// to the run's ExperimentResult.
type Harness struct {
	model  *model.Sequential
	opt    optimizer.Optimizer
	train  Dataset
	test   Dataset
	config HarnessConfig
	logger *zap.Logger
}

// NewHarness validates the run setup. Both datasets must agree with the
// model on sample width.
func NewHarness(m *model.Sequential, opt optimizer.Optimizer, train, test Dataset, config HarnessConfig, logger *zap.Logger) (*Harness, error) {
	if m == nil {
		return nil, fmt.Errorf("model is required")
	}
	if opt == nil {
		return nil, fmt.Errorf("optimizer is required")
	}
	if train == nil || train.Len() == 0 {
		return nil, fmt.Errorf("training split is empty")
	}
	if test == nil || test.Len() == 0 {
		return nil, fmt.Errorf("testing split is empty")
	}
	if config.Epochs <= 0 {
		return nil, fmt.Errorf("epoch count must be positive, got %d", config.Epochs)
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.BatchSize < 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", config.BatchSize)
	}
	if train.Dim() != test.Dim() {
		return nil, fmt.Errorf("train sample width %d does not match test width %d", train.Dim(), test.Dim())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{
		model:  m,
		opt:    opt,
		train:  train,
		test:   test,
		config: config,
		logger: logger,
	}, nil
}

// Run executes the configured number of epochs and returns the completed
// result. Cancellation is honored between epochs only; a context
// cancelled mid-epoch takes effect at the next epoch boundary.
func (h *Harness) Run(ctx context.Context) (*ExperimentResult, error) {
	result := NewExperimentResult(
		h.model.Name(),
		h.opt.LearningRate(),
		h.config.BatchSize,
		h.opt.Name(),
		criterionName,
		h.config.Epochs,
	)

	trainLoader, err := NewDataLoader(h.train, h.config.BatchSize, true, h.config.Seed)
	if err != nil {
		return nil, err
	}

	h.logger.Info("starting training run",
		zap.String("run_id", result.RunID),
		zap.String("model", h.model.Name()),
		zap.String("optimizer", h.opt.Name()),
		zap.Int("epochs", h.config.Epochs),
		zap.Int("batch_size", h.config.BatchSize),
		zap.Int("train_samples", h.train.Len()),
		zap.Int("test_samples", h.test.Len()),
	)

	for epoch := 0; epoch < h.config.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training cancelled before epoch %d: %w", epoch, err)
		}

		if err := h.trainEpoch(trainLoader); err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		metrics, trainCM, testCM, err := h.evaluate()
		if err != nil {
			return nil, fmt.Errorf("epoch %d evaluation: %w", epoch, err)
		}
		result.RecordEpoch(metrics, trainCM, testCM)

		h.logger.Info("epoch complete",
			zap.Int("epoch", epoch),
			zap.Float64("train_loss", metrics.TrainLoss),
			zap.Float64("train_accuracy", metrics.TrainAccuracy),
			zap.Float64("test_loss", metrics.TestLoss),
			zap.Float64("test_accuracy", metrics.TestAccuracy),
		)
	}

	h.logger.Info("training run complete", zap.String("run_id", result.RunID))
	return result, nil
}

// trainEpoch runs one pass of gradient updates over the training split
// in freshly shuffled order.
func (h *Harness) trainEpoch(loader *DataLoader) error {
	loader.Reset()
	for {
		batch, err := loader.Next()
		if err != nil {
			return err
		}
		if batch == nil {
			return nil
		}

		h.model.ZeroGrad()
		logits, err := h.model.Forward(batch.Data)
		if err != nil {
			return fmt.Errorf("forward pass: %w", err)
		}
		_, grad, err := SoftmaxCrossEntropy(logits, batch.Labels)
		if err != nil {
			return fmt.Errorf("loss: %w", err)
		}
		if err := h.model.Backward(grad); err != nil {
			return fmt.Errorf("backward pass: %w", err)
		}
		if err := h.opt.Step(h.model.Params()); err != nil {
			return fmt.Errorf("optimizer step: %w", err)
		}
	}
}

// evaluate measures loss, accuracy and confusion counts over both full
// splits. The model is switched to inference mode for the duration and
// restored to training mode on every exit path.
func (h *Harness) evaluate() (EpochMetrics, *ConfusionMatrix, *ConfusionMatrix, error) {
	wasTraining := h.model.Training()
	h.model.SetTraining(false)
	defer h.model.SetTraining(wasTraining)

	trainLoss, trainCM, err := h.evaluateSplit(h.train)
	if err != nil {
		return EpochMetrics{}, nil, nil, fmt.Errorf("training split: %w", err)
	}
	testLoss, testCM, err := h.evaluateSplit(h.test)
	if err != nil {
		return EpochMetrics{}, nil, nil, fmt.Errorf("testing split: %w", err)
	}

	return EpochMetrics{
		TrainLoss:     trainLoss,
		TrainAccuracy: trainCM.Accuracy(),
		TestLoss:      testLoss,
		TestAccuracy:  testCM.Accuracy(),
	}, trainCM, testCM, nil
}

// evaluateSplit runs the split in its natural order and returns the
// batch-averaged loss and the full confusion breakdown.
func (h *Harness) evaluateSplit(ds Dataset) (float64, *ConfusionMatrix, error) {
	numClasses := ds.NumClasses()
	if numClasses < 2 {
		numClasses = h.train.NumClasses()
	}
	cm, err := NewConfusionMatrix(numClasses)
	if err != nil {
		return 0, nil, err
	}

	loader, err := NewDataLoader(ds, h.config.BatchSize, false, 0)
	if err != nil {
		return 0, nil, err
	}
	loader.Reset()

	var totalLoss float64
	batches := 0
	for {
		batch, err := loader.Next()
		if err != nil {
			return 0, nil, err
		}
		if batch == nil {
			break
		}

		logits, err := h.model.Forward(batch.Data)
		if err != nil {
			return 0, nil, fmt.Errorf("forward pass: %w", err)
		}
		loss, _, err := SoftmaxCrossEntropy(logits, batch.Labels)
		if err != nil {
			return 0, nil, err
		}
		totalLoss += float64(loss)
		batches++

		preds, err := Predictions(logits)
		if err != nil {
			return 0, nil, err
		}
		for i, p := range preds {
			if err := cm.Add(p, batch.Labels[i]); err != nil {
				return 0, nil, err
			}
		}
	}

	if batches == 0 {
		return 0, nil, fmt.Errorf("split produced no batches")
	}
	return totalLoss / float64(batches), cm, nil
}

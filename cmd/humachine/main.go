// Command humachine trains and evaluates classifiers that separate
// human-written text from machine-generated text.
//
// Usage:
//
//	humachine embed -config config.yaml
//	humachine export-images -config config.yaml
//	humachine train -config config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/humachine/humachine/checkpoints"
	"github.com/humachine/humachine/config"
	"github.com/humachine/humachine/dataset"
	"github.com/humachine/humachine/embed"
	"github.com/humachine/humachine/model"
	"github.com/humachine/humachine/optimizer"
	"github.com/humachine/humachine/training"
	"github.com/humachine/humachine/vision"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: humachine <embed|export-images|train> -config <path>")
		os.Exit(2)
	}

	mode := os.Args[1]
	flags := flag.NewFlagSet(mode, flag.ExitOnError)
	configPath := flags.String("config", "config.yaml", "path to the YAML configuration file")
	flags.Parse(os.Args[2:])

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	switch mode {
	case "embed":
		err = runEmbed(ctx, cfg, logger)
	case "export-images":
		err = runExportImages(cfg, logger)
	case "train":
		err = runTrain(ctx, cfg, logger)
	default:
		logger.Fatal("unknown mode", zap.String("mode", mode))
	}
	if err != nil {
		logger.Fatal("command failed", zap.String("mode", mode), zap.Error(err))
	}
}

func newEmbedder(cfg *config.Config) (embed.Embedder, error) {
	switch cfg.Embedder.Name {
	case "hashing":
		return embed.NewHashing(cfg.Embedder.Dim), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", cfg.Embedder.Name)
	}
}

// runEmbed reads labeled text records, embeds them eagerly and writes
// the resulting table to the embeddings CSV.
func runEmbed(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	records, err := dataset.LoadRecordsCSV(cfg.Data.RecordsPath)
	if err != nil {
		return err
	}
	logger.Info("loaded records",
		zap.String("path", cfg.Data.RecordsPath),
		zap.Int("count", len(records)),
		zap.String("embedder", embedder.Name()),
		zap.Int("dim", embedder.Dim()),
	)

	bar := training.NewProgressBar("embedding", len(records), os.Stderr)
	ds, err := dataset.FromRecords(ctx, records, embedder, dataset.EagerOptions{
		Workers: cfg.Embedder.Workers,
		Progress: func(done, total int) {
			bar.Update(done, nil)
		},
	})
	if err != nil {
		return err
	}
	bar.Finish()

	if err := ds.Table().SaveCSV(cfg.Data.EmbeddingsPath); err != nil {
		return err
	}
	logger.Info("wrote embeddings",
		zap.String("path", cfg.Data.EmbeddingsPath),
		zap.Int("samples", ds.Len()),
	)
	return nil
}

// runExportImages projects an embeddings table to grayscale images and
// writes them as a directory-per-class PNG tree.
func runExportImages(cfg *config.Config, logger *zap.Logger) error {
	table, err := dataset.LoadCSV(cfg.Data.EmbeddingsPath)
	if err != nil {
		return err
	}

	projector := vision.NewProjector(cfg.Image.Resize, cfg.Image.Canvas)
	images, err := vision.NewProjectionDataset(dataset.FromTable(table), projector, cfg.Image.Precompute)
	if err != nil {
		return err
	}

	if err := images.Export(cfg.Data.ImageRoot, logger); err != nil {
		return err
	}
	logger.Info("exported image tree",
		zap.String("root", cfg.Data.ImageRoot),
		zap.Int("images", images.Len()),
	)
	return nil
}

// runTrain builds the configured model and datasets, runs the training
// harness and writes the experiment result JSON.
func runTrain(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	arch, err := model.ParseArch(cfg.Model.Arch)
	if err != nil {
		return err
	}

	trainSet, testSet, err := loadSplits(cfg, arch, logger)
	if err != nil {
		return err
	}

	m, err := model.Build(arch, trainSet.Dim(), trainSet.NumClasses(), cfg.Model.Seed)
	if err != nil {
		return err
	}
	opt, err := optimizer.New(cfg.Training.Optimizer, cfg.Training.LearningRate)
	if err != nil {
		return err
	}

	harness, err := training.NewHarness(m, opt, trainSet, testSet, training.HarnessConfig{
		Epochs:    cfg.Training.Epochs,
		BatchSize: cfg.Training.BatchSize,
		Seed:      cfg.Model.Seed,
	}, logger)
	if err != nil {
		return err
	}

	result, err := harness.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Data.ResultPath != "" {
		if err := result.SaveJSON(cfg.Data.ResultPath); err != nil {
			return err
		}
		logger.Info("wrote experiment result",
			zap.String("path", cfg.Data.ResultPath),
			zap.String("run_id", result.RunID),
		)
	}

	if cfg.Data.CheckpointPath != "" {
		checkpoint := checkpoints.Snapshot(m, arch, trainSet.Dim(), trainSet.NumClasses(), "run "+result.RunID)
		if err := checkpoint.Save(cfg.Data.CheckpointPath); err != nil {
			return err
		}
		logger.Info("wrote model checkpoint", zap.String("path", cfg.Data.CheckpointPath))
	}
	return nil
}

// loadSplits resolves the train and test datasets for the configured
// architecture: image models read the exported PNG tree, tabular models
// read embeddings CSVs. With no separate test split configured, the
// training split doubles as the evaluation split.
func loadSplits(cfg *config.Config, arch model.Arch, logger *zap.Logger) (training.Dataset, training.Dataset, error) {
	if arch == model.ImageMLP {
		trainSet, err := vision.NewFolderDataset(cfg.Data.ImageRoot)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("loaded image tree",
			zap.String("root", cfg.Data.ImageRoot),
			zap.Int("samples", trainSet.Len()),
		)
		return trainSet, trainSet, nil
	}

	table, err := dataset.LoadCSV(cfg.Data.EmbeddingsPath)
	if err != nil {
		return nil, nil, err
	}
	trainSet := dataset.FromTable(table)
	logger.Info("loaded embeddings",
		zap.String("path", cfg.Data.EmbeddingsPath),
		zap.Int("samples", trainSet.Len()),
	)

	if cfg.Data.TestSplit == "" {
		logger.Warn("no test split configured, evaluating on the training split")
		return trainSet, trainSet, nil
	}

	testTable, err := dataset.LoadCSV(cfg.Data.TestSplit)
	if err != nil {
		return nil, nil, err
	}
	return trainSet, dataset.FromTable(testTable), nil
}

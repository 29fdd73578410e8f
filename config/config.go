// Package config loads the YAML run configuration shared by the CLI
// commands.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Data struct {
		RecordsPath    string `yaml:"records_path"`
		EmbeddingsPath string `yaml:"embeddings_path"`
		TestSplit      string `yaml:"test_split"`
		ImageRoot      string `yaml:"image_root"`
		ResultPath     string `yaml:"result_path"`
		CheckpointPath string `yaml:"checkpoint_path"`
	} `yaml:"data"`
	Embedder struct {
		Name    string `yaml:"name"`
		Dim     int    `yaml:"dim"`
		Workers int    `yaml:"workers"`
	} `yaml:"embedder"`
	Model struct {
		Arch string `yaml:"arch"`
		Seed int64  `yaml:"seed"`
	} `yaml:"model"`
	Training struct {
		Optimizer    string  `yaml:"optimizer"`
		LearningRate float32 `yaml:"learning_rate"`
		BatchSize    int     `yaml:"batch_size"`
		Epochs       int     `yaml:"epochs"`
	} `yaml:"training"`
	Image struct {
		Resize     bool `yaml:"resize"`
		Canvas     int  `yaml:"canvas"`
		Precompute bool `yaml:"precompute"`
	} `yaml:"image"`
}

// LoadConfig reads configuration from the specified YAML file and fills
// defaults for fields left unset.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Embedder.Name == "" {
		c.Embedder.Name = "hashing"
	}
	if c.Embedder.Dim == 0 {
		c.Embedder.Dim = 64
	}
	if c.Embedder.Workers == 0 {
		c.Embedder.Workers = 4
	}
	if c.Model.Arch == "" {
		c.Model.Arch = "logistic_regression"
	}
	if c.Model.Seed == 0 {
		c.Model.Seed = 1
	}
	if c.Training.Optimizer == "" {
		c.Training.Optimizer = "sgd"
	}
	if c.Training.LearningRate == 0 {
		c.Training.LearningRate = 0.01
	}
	if c.Training.BatchSize == 0 {
		c.Training.BatchSize = 32
	}
	if c.Training.Epochs == 0 {
		c.Training.Epochs = 10
	}
}

func (c *Config) validate() error {
	if c.Embedder.Dim < 1 {
		return fmt.Errorf("embedder dim must be positive, got %d", c.Embedder.Dim)
	}
	if c.Training.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %f", c.Training.LearningRate)
	}
	if c.Training.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", c.Training.BatchSize)
	}
	if c.Training.Epochs < 1 {
		return fmt.Errorf("epoch count must be positive, got %d", c.Training.Epochs)
	}
	return nil
}

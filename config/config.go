// Package config holds the run configuration of the pair-preparation
// pipeline and loads it from YAML.
package config

import (
	"math"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/tsawler/go-mvcl/dataset"
	"github.com/tsawler/go-mvcl/errkind"
	"gopkg.in/yaml.v3"
)

// Config describes one preparation run.
type Config struct {
	Dataset       string  `yaml:"dataset" json:"dataset"`               // Scene15 / Caltech101 / Reuters_dim10 / NoisyMNIST-30000
	NegProp       int     `yaml:"neg_prop" json:"neg_prop"`             // negatives drawn per anchor
	TestFraction  float64 `yaml:"test_fraction" json:"test_fraction"`   // share of samples treated as unaligned
	TrainBatch    int     `yaml:"train_batch" json:"train_batch"`       // training loader batch size
	EvalBatch     int     `yaml:"eval_batch" json:"eval_batch"`         // evaluation loader batch size
	NoisyTraining bool    `yaml:"noisy_training" json:"noisy_training"` // train on noisy (sampled) labels rather than ground truth
	ExcludeSelf   bool    `yaml:"exclude_self" json:"exclude_self"`     // never draw the anchor as its own negative
	FavorNear     bool    `yaml:"favor_near" json:"favor_near"`         // softmax over negated distances in adaptive rounds
	ShuffleEval   bool    `yaml:"shuffle_eval" json:"shuffle_eval"`

	// Seeds. Zero means "pick one"; the chosen value is reported back.
	SplitSeed   int64  `yaml:"split_seed" json:"split_seed"`
	ShuffleSeed int64  `yaml:"shuffle_seed" json:"shuffle_seed"`
	PairSeed    uint64 `yaml:"pair_seed" json:"pair_seed"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Dataset:       "Scene15",
		NegProp:       30,
		TestFraction:  0.5,
		TrainBatch:    1024,
		EvalBatch:     1024,
		NoisyTraining: true,
		ShuffleEval:   true,
	}
}

// LoadFromYAML reads a configuration file. Fields missing from the file keep
// their Default values.
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse yaml"), errkind.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field as a configuration error.
func (c *Config) Validate() error {
	if _, err := dataset.ParseKind(c.Dataset); err != nil {
		return err
	}
	if c.NegProp < 1 {
		return errkind.Configurationf("neg_prop must be positive, got %d", c.NegProp)
	}
	if math.IsNaN(c.TestFraction) || c.TestFraction < 0 || c.TestFraction >= 1 {
		return errkind.Configurationf("test_fraction must be in [0, 1), got %v", c.TestFraction)
	}
	if c.TrainBatch < 1 {
		return errkind.Configurationf("train_batch must be positive, got %d", c.TrainBatch)
	}
	if c.EvalBatch < 1 {
		return errkind.Configurationf("eval_batch must be positive, got %d", c.EvalBatch)
	}
	return nil
}

// TrainingMode names the label channel used for training.
func (c *Config) TrainingMode() string {
	if c.NoisyTraining {
		return "noisy_labels"
	}
	return "real_labels"
}

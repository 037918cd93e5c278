// Package config holds the densenet driver configuration.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/densenet/internal/nn"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config controls one training and evaluation run.
type Config struct {
	DataDir   string `json:"data_dir" yaml:"data_dir"`   // Directory holding the MNIST files.
	Synthetic int    `json:"synthetic" yaml:"synthetic"` // Use N synthetic samples instead of DataDir (0 = off).

	Hidden           []int  `json:"hidden" yaml:"hidden"`                       // Hidden layer widths, input side first.
	HiddenActivation string `json:"hidden_activation" yaml:"hidden_activation"` // Activation name for hidden layers.
	OutputActivation string `json:"output_activation" yaml:"output_activation"` // Activation name for the output layer.

	BatchSize       int     `json:"batch_size" yaml:"batch_size"`
	LearningRate    float64 `json:"learning_rate" yaml:"learning_rate"`
	Epochs          int     `json:"epochs" yaml:"epochs"`
	ProgressSamples int     `json:"progress_samples" yaml:"progress_samples"` // Samples in each progress cost.

	TrainLimit  int `json:"train_limit" yaml:"train_limit"`   // Train on the first N samples (0 = all).
	EvalSamples int `json:"eval_samples" yaml:"eval_samples"` // Accuracy over the first N test samples (0 = all).

	Seed    uint64 `json:"seed" yaml:"seed"`       // Weight initialization seed (0 = random).
	Workers int    `json:"workers" yaml:"workers"` // Evaluation workers (0 = NumCPU, 1 = sequential).

	DumpWeights bool `json:"dump_weights" yaml:"dump_weights"` // Print every weight after training.
}

// Default returns the configuration of the reference MNIST run:
// two hidden sigmoid layers of 32 and 16 nodes, batch 10, learning rate 1,
// 10 epochs.
func Default() Config {
	return Config{
		DataDir:          "data",
		Hidden:           []int{32, 16},
		HiddenActivation: nn.Sigmoid.Name,
		OutputActivation: nn.Sigmoid.Name,
		BatchSize:        10,
		LearningRate:     1,
		Epochs:           10,
		ProgressSamples:  nn.DefaultProgressSamples,
		EvalSamples:      100,
	}
}

// Validate checks every field. The error wraps ErrInvalid and, for an
// unknown activation, nn.ErrUnknownActivation.
func (c Config) Validate() error {
	if c.DataDir == "" && c.Synthetic <= 0 {
		return fmt.Errorf("%w: data_dir is empty and synthetic is off", ErrInvalid)
	}
	if c.Synthetic < 0 {
		return fmt.Errorf("%w: synthetic must be non-negative, got %d", ErrInvalid, c.Synthetic)
	}
	for i, h := range c.Hidden {
		if h < 1 {
			return fmt.Errorf("%w: hidden layer %d has %d nodes", ErrInvalid, i, h)
		}
	}
	if _, err := nn.ActivationByName(c.HiddenActivation); err != nil {
		return fmt.Errorf("%w: hidden_activation: %w", ErrInvalid, err)
	}
	if _, err := nn.ActivationByName(c.OutputActivation); err != nil {
		return fmt.Errorf("%w: output_activation: %w", ErrInvalid, err)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalid, c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("%w: learning_rate must be positive, got %g", ErrInvalid, c.LearningRate)
	}
	if c.Epochs < 0 {
		return fmt.Errorf("%w: epochs must be non-negative, got %d", ErrInvalid, c.Epochs)
	}
	if c.ProgressSamples < 0 || c.TrainLimit < 0 || c.EvalSamples < 0 || c.Workers < 0 {
		return fmt.Errorf("%w: progress_samples, train_limit, eval_samples and workers must be non-negative", ErrInvalid)
	}
	return nil
}

// Activations resolves the hidden and output activation names.
func (c Config) Activations() (hidden, output nn.Activation, err error) {
	if hidden, err = nn.ActivationByName(c.HiddenActivation); err != nil {
		return hidden, output, err
	}
	output, err = nn.ActivationByName(c.OutputActivation)
	return hidden, output, err
}

// Load reads a config file over Default. Files ending in ".yaml" or ".yml"
// are parsed as YAML, anything else as JSON. Fields absent from the file
// keep their default values. The result is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RegisterFlags binds every field to a flag on fs, using the current
// values of c as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataDir, "data", c.DataDir, "directory with MNIST IDX files (raw or .gz)")
	fs.IntVar(&c.Synthetic, "synthetic", c.Synthetic, "train on N synthetic samples instead of MNIST (0 = off)")
	fs.Var((*intList)(&c.Hidden), "hidden", "comma-separated hidden layer widths")
	fs.StringVar(&c.HiddenActivation, "hidden-act", c.HiddenActivation,
		"hidden activation ("+strings.Join(nn.ActivationNames(), ", ")+")")
	fs.StringVar(&c.OutputActivation, "output-act", c.OutputActivation, "output activation")
	fs.IntVar(&c.BatchSize, "batch", c.BatchSize, "batch size")
	fs.Float64Var(&c.LearningRate, "lr", c.LearningRate, "learning rate")
	fs.IntVar(&c.Epochs, "epochs", c.Epochs, "number of epochs")
	fs.IntVar(&c.ProgressSamples, "progress", c.ProgressSamples, "samples in each progress cost")
	fs.IntVar(&c.TrainLimit, "train-limit", c.TrainLimit, "train on the first N samples (0 = all)")
	fs.IntVar(&c.EvalSamples, "eval", c.EvalSamples, "accuracy over the first N test samples (0 = all)")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "weight initialization seed (0 = random)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "evaluation workers (0 = NumCPU)")
	fs.BoolVar(&c.DumpWeights, "dump-weights", c.DumpWeights, "print every weight after training")
}

// intList is a flag.Value for "32,16" style lists.
type intList []int

func (l *intList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*l = nil
		return nil
	}
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return fmt.Errorf("invalid width %q: %w", f, err)
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

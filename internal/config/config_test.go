package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/densenet/internal/nn"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []int{32, 16}, cfg.Hidden)
	assert.Equal(t, "sigmoid", cfg.HiddenActivation)
	assert.Equal(t, "sigmoid", cfg.OutputActivation)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.InDelta(t, 1.0, cfg.LearningRate, 0)
	assert.Equal(t, 10, cfg.Epochs)
	assert.Equal(t, 100, cfg.ProgressSamples)
	assert.Equal(t, 100, cfg.EvalSamples)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no data", func(c *Config) { c.DataDir = "" }},
		{"negative synthetic", func(c *Config) { c.Synthetic = -1 }},
		{"zero hidden width", func(c *Config) { c.Hidden = []int{32, 0} }},
		{"unknown hidden activation", func(c *Config) { c.HiddenActivation = "softmax" }},
		{"unknown output activation", func(c *Config) { c.OutputActivation = "" }},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }},
		{"negative epochs", func(c *Config) { c.Epochs = -1 }},
		{"negative eval", func(c *Config) { c.EvalSamples = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	cfg := Default()
	cfg.HiddenActivation = "nope"
	assert.ErrorIs(t, cfg.Validate(), nn.ErrUnknownActivation)

	cfg = Default()
	cfg.DataDir = ""
	cfg.Synthetic = 500
	cfg.Hidden = nil
	assert.NoError(t, cfg.Validate(), "synthetic data and no hidden layers are valid")
}

func TestActivations(t *testing.T) {
	cfg := Default()
	cfg.HiddenActivation = "ReLU"
	cfg.OutputActivation = "tanh"

	hidden, output, err := cfg.Activations()
	require.NoError(t, err)
	assert.Equal(t, "relu", hidden.Name)
	assert.Equal(t, "tanh", output.Name)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "run.json", `{"hidden": [64], "hidden_activation": "relu", "epochs": 3, "learning_rate": 0.5}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{64}, cfg.Hidden)
	assert.Equal(t, "relu", cfg.HiddenActivation)
	assert.Equal(t, 3, cfg.Epochs)
	assert.InDelta(t, 0.5, cfg.LearningRate, 0)
	// Untouched fields keep their defaults.
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, "data", cfg.DataDir)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "run.yaml", "synthetic: 200\nhidden: [8, 4]\nbatch_size: 5\nseed: 42\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Synthetic)
	assert.Equal(t, []int{8, 4}, cfg.Hidden)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, uint64(42), cfg.Seed)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "bad.json", `{"epochs": `))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "bad.yml", "batch_size: 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRegisterFlags(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"-hidden", "100, 50,25",
		"-hidden-act", "tanh",
		"-batch", "32",
		"-lr", "0.1",
		"-synthetic", "1000",
		"-seed", "7",
		"-dump-weights",
	}))

	assert.Equal(t, []int{100, 50, 25}, cfg.Hidden)
	assert.Equal(t, "tanh", cfg.HiddenActivation)
	assert.Equal(t, 32, cfg.BatchSize)
	assert.InDelta(t, 0.1, cfg.LearningRate, 0)
	assert.Equal(t, 1000, cfg.Synthetic)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.True(t, cfg.DumpWeights)
	assert.Equal(t, 10, cfg.Epochs)

	assert.Equal(t, "32,16", fs.Lookup("hidden").DefValue)
}

func TestRegisterFlagsBadList(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&discard{})
	cfg.RegisterFlags(fs)

	assert.Error(t, fs.Parse([]string{"-hidden", "32,x"}))
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }

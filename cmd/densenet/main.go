// Package main provides the densenet CLI: train a dense feed-forward
// network on MNIST and report its test accuracy and cost.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"

	"github.com/google/uuid"

	"github.com/born-ml/densenet/internal/config"
	"github.com/born-ml/densenet/internal/dataset"
	"github.com/born-ml/densenet/internal/eval"
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/parallel"
)

const version = "v0.1.0"

// Synthetic runs use MNIST-sized images and digits.
const (
	syntheticRows    = 28
	syntheticCols    = 28
	syntheticClasses = 10
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("densenet %s\n", version)
		return
	}

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "train" {
		args = args[1:]
	}

	cfg, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			printDownloadHelp()
			os.Exit(1)
		}
		log.Fatalf("densenet: %v", err)
	}
}

// parseFlags builds the run configuration: defaults, then the -config file
// if given, then explicit flags.
func parseFlags(args []string) (config.Config, error) {
	// A first pass only looks for -config so the file can seed the defaults.
	pre := flag.NewFlagSet("densenet", flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	path := pre.String("config", "", "")
	scratch := config.Default()
	scratch.RegisterFlags(pre)
	_ = pre.Parse(args)

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			return cfg, err
		}
	}

	fs := flag.NewFlagSet("densenet", flag.ContinueOnError)
	fs.String("config", *path, "JSON or YAML config file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// run trains and evaluates one network, writing progress to out.
func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	logger := log.New(out, fmt.Sprintf("[%s] ", uuid.NewString()[:8]), log.LstdFlags)

	fmt.Fprintf(out, "densenet %s - MNIST dense network\n", version)

	// Load data
	trainData, testData, err := loadData(cfg, logger)
	if err != nil {
		return err
	}
	trainData = trainData.Limit(cfg.TrainLimit)
	logger.Printf("Train: %d samples, Test: %d samples (%dx%d)",
		trainData.Len(), testData.Len(), trainData.Rows, trainData.Cols)

	// Create model
	net, err := buildNetwork(cfg, trainData.ImageSize(), syntheticClasses)
	if err != nil {
		return err
	}
	logger.Printf("Model: %s", net)
	logger.Printf("Training: batch=%d lr=%g epochs=%d", cfg.BatchSize, cfg.LearningRate, cfg.Epochs)

	// Training loop
	err = net.TrainContext(ctx, trainData, nn.TrainConfig{
		BatchSize:       cfg.BatchSize,
		LearningRate:    cfg.LearningRate,
		Epochs:          cfg.Epochs,
		ProgressSamples: cfg.ProgressSamples,
		Report: func(p nn.Progress) {
			if p.Epoch == 0 {
				logger.Printf("Initial cost: %.6f", p.Cost)
				return
			}
			logger.Printf("Epoch %2d/%d: cost=%.6f", p.Epoch, cfg.Epochs, p.Cost)
		},
	})
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	logger.Printf("Training complete")

	if cfg.DumpWeights {
		if err := net.DumpWeights(out); err != nil {
			return fmt.Errorf("failed to dump weights: %w", err)
		}
	}

	// Final evaluation
	res, err := eval.Evaluate(net, testData, cfg.EvalSamples, parallelConfig(cfg.Workers))
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	cost, err := net.DatasetCost(testData, 0, testData.Len())
	if err != nil {
		return fmt.Errorf("test cost failed: %w", err)
	}

	fmt.Fprintf(out, "Accuracy: %.2f%% (%d/%d)\n", 100*res.Accuracy(), res.Correct, res.Total)
	fmt.Fprintf(out, "Test cost: %.6f\n", cost)
	return nil
}

// loadData returns the training and test sets. Synthetic runs split one
// generated set 80/20.
func loadData(cfg config.Config, logger *log.Logger) (train, test *dataset.Dataset, err error) {
	if cfg.Synthetic > 0 {
		logger.Printf("Using %d synthetic samples", cfg.Synthetic)
		train, test = dataset.Synthetic(cfg.Synthetic, syntheticRows, syntheticCols, syntheticClasses).Split(0.2)
		return train, test, nil
	}

	logger.Printf("Loading MNIST data from: %s", cfg.DataDir)
	if train, err = dataset.LoadDir(cfg.DataDir, true); err != nil {
		return nil, nil, fmt.Errorf("failed to load training set: %w", err)
	}
	if test, err = dataset.LoadDir(cfg.DataDir, false); err != nil {
		return nil, nil, fmt.Errorf("failed to load test set: %w", err)
	}
	return train, test, nil
}

// buildNetwork creates len(cfg.Hidden)+1 layers and sizes the hidden ones.
func buildNetwork(cfg config.Config, inputs, outputs int) (*nn.Network, error) {
	hidden, output, err := cfg.Activations()
	if err != nil {
		return nil, err
	}

	var src rand.Source
	if cfg.Seed != 0 {
		src = rand.NewPCG(cfg.Seed, cfg.Seed)
	}

	net := nn.NewNetwork(len(cfg.Hidden)+1, inputs, outputs, hidden, output, src)
	for i, width := range cfg.Hidden {
		net.SetLayerNodes(i, width)
	}
	return net, nil
}

func parallelConfig(workers int) parallel.Config {
	switch workers {
	case 0:
		return parallel.DefaultConfig()
	case 1:
		return parallel.Sequential()
	default:
		cfg := parallel.DefaultConfig()
		cfg.Enabled = true
		cfg.NumWorkers = min(workers, 4*runtime.NumCPU())
		return cfg
	}
}

func printDownloadHelp() {
	fmt.Println("\nError: MNIST data files not found!")
	fmt.Println("\nTo download MNIST dataset:")
	fmt.Println("  1. Create a 'data' directory: mkdir data")
	fmt.Println("  2. Download files from: http://yann.lecun.com/exdb/mnist/")
	fmt.Println("     - train-images-idx3-ubyte.gz")
	fmt.Println("     - train-labels-idx1-ubyte.gz")
	fmt.Println("     - t10k-images-idx3-ubyte.gz")
	fmt.Println("     - t10k-labels-idx1-ubyte.gz")
	fmt.Println("  3. Place them (compressed or extracted) in the data directory")
	fmt.Println("\nOr run with the -synthetic flag to use generated test data:")
	fmt.Println("  densenet -synthetic 1000")
}

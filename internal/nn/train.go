package nn

import (
	"context"
	"fmt"
)

// DefaultProgressSamples is how many leading samples the progress cost is
// measured over.
const DefaultProgressSamples = 100

// Progress is one training progress report.
type Progress struct {
	Epoch int     // 0 before training, then 1..Epochs after each epoch
	Cost  float64 // average cost over the first ProgressSamples samples
}

// TrainConfig holds hyperparameters and hooks for Train.
type TrainConfig struct {
	BatchSize    int     // Samples per gradient average (must be positive)
	LearningRate float64 // Gradient descent step size
	Epochs       int     // Full passes over the dataset

	// ProgressSamples is the size of the cost window reported through
	// Report (default: DefaultProgressSamples).
	ProgressSamples int

	// Report, if set, receives the cost before training and after every
	// epoch. The cost is only computed when Report is set.
	Report func(Progress)

	// OnApply, if set, is called after every gradient application with the
	// epoch (0-based) and the sample index that triggered it.
	OnApply func(epoch, index int)
}

// Train runs mini-batch gradient descent over samples. See TrainContext.
func (n *Network) Train(samples Samples, cfg TrainConfig) error {
	return n.TrainContext(context.Background(), samples, cfg)
}

// TrainContext runs mini-batch gradient descent over samples, in order,
// for cfg.Epochs epochs.
//
// Every sample is back-propagated against the one-hot vector of its label.
// Gradients are applied whenever the sample index within the epoch is a
// multiple of cfg.BatchSize. Batches are aligned to the absolute index:
// index 0 of every epoch triggers an apply straight after its own
// backward pass, and whatever accumulated after the last apply of an epoch
// is carried into the index 0 apply of the next one. Accumulation left
// after the final epoch is discarded.
//
// Every sample is checked before training starts, so a malformed dataset
// fails with the weights untouched.
//
// ctx is checked between samples; on cancellation the accumulators are
// freed and ctx.Err() is returned.
func (n *Network) TrainContext(ctx context.Context, samples Samples, cfg TrainConfig) error {
	if cfg.BatchSize < 1 {
		return fmt.Errorf("train: %w: got %d", ErrInvalidBatchSize, cfg.BatchSize)
	}
	total := samples.Len()
	if total == 0 {
		return fmt.Errorf("train: %w", ErrEmptyDataset)
	}
	if cfg.ProgressSamples <= 0 {
		cfg.ProgressSamples = DefaultProgressSamples
	}
	for i := 0; i < total; i++ {
		image, label := samples.Sample(i)
		if err := n.CheckSample(i, image, label); err != nil {
			return fmt.Errorf("train: %w", err)
		}
	}

	n.InitGradients()
	defer n.FreeGradients()

	if err := n.report(samples, cfg, 0); err != nil {
		return err
	}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for i := 0; i < total; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			image, label := samples.Sample(i)
			n.Backward(image, n.oneHot(label))

			if i%cfg.BatchSize == 0 {
				n.ApplyGradients(cfg.BatchSize, cfg.LearningRate)
				if cfg.OnApply != nil {
					cfg.OnApply(epoch, i)
				}
			}
		}

		if err := n.report(samples, cfg, epoch+1); err != nil {
			return err
		}
	}
	return nil
}

func (n *Network) report(samples Samples, cfg TrainConfig, epoch int) error {
	if cfg.Report == nil {
		return nil
	}
	cost, err := n.DatasetCost(samples, 0, cfg.ProgressSamples)
	if err != nil {
		return fmt.Errorf("train: progress cost: %w", err)
	}
	cfg.Report(Progress{Epoch: epoch, Cost: cost})
	return nil
}

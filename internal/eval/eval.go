// Package eval measures a trained network on a labeled dataset.
//
// Evaluation only runs forward passes, so it can be split across workers:
// each chunk of samples gets its own clone of the network and the
// per-chunk tallies are merged in index order.
package eval

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/parallel"
)

// ArgMax returns the index of the largest value. Ties resolve to the
// lowest index. Panics on an empty slice.
func ArgMax(values []float64) int {
	return floats.MaxIdx(values)
}

// Result summarizes an evaluation run.
type Result struct {
	Total   int     // Samples evaluated.
	Correct int     // Samples whose arg-max matched the label.
	Cost    float64 // Summed sample cost.

	// Confusion[label][predicted] counts samples; NumOutputs × NumOutputs.
	Confusion [][]int
}

// Accuracy returns Correct/Total, or 0 for an empty result.
func (r Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// MeanCost returns Cost/Total, or 0 for an empty result.
func (r Result) MeanCost() float64 {
	if r.Total == 0 {
		return 0
	}
	return r.Cost / float64(r.Total)
}

// String formats the headline numbers.
func (r Result) String() string {
	return fmt.Sprintf("%d/%d correct (%.2f%%), cost %.4f", r.Correct, r.Total, 100*r.Accuracy(), r.Cost)
}

func newResult(classes int) Result {
	confusion := make([][]int, classes)
	for i := range confusion {
		confusion[i] = make([]int, classes)
	}
	return Result{Confusion: confusion}
}

func (r *Result) merge(o Result) {
	r.Total += o.Total
	r.Correct += o.Correct
	r.Cost += o.Cost
	for i, row := range o.Confusion {
		for j, v := range row {
			r.Confusion[i][j] += v
		}
	}
}

// Evaluate runs the first limit samples (all of them if limit <= 0) through
// net and tallies accuracy, cost and the confusion matrix.
//
// net itself is never run: every chunk works on a clone, so net may be
// shared with other readers. Returns an error wrapping nn.ErrInputSize or
// nn.ErrLabelOutOfRange for a malformed sample.
//
// Example:
//
//	res, err := eval.Evaluate(net, test, 100, parallel.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("accuracy: %.2f%%\n", 100*res.Accuracy())
func Evaluate(net *nn.Network, samples nn.Samples, limit int, cfg parallel.Config) (Result, error) {
	n := samples.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	classes := net.NumOutputs()
	chunks := parallel.Chunks(n, cfg)
	results := make([]Result, len(chunks))
	errs := make([]error, len(chunks))

	parallel.ForChunks(n, func(i int, c parallel.Chunk) {
		results[i], errs[i] = evaluateChunk(net.Clone(), samples, c, classes)
	}, cfg)

	total := newResult(classes)
	for i := range results {
		if errs[i] != nil {
			return Result{}, errs[i]
		}
		total.merge(results[i])
	}
	return total, nil
}

func evaluateChunk(net *nn.Network, samples nn.Samples, c parallel.Chunk, classes int) (Result, error) {
	res := newResult(classes)
	expected := make([]float64, classes)

	for i := c.Start; i < c.End; i++ {
		image, label := samples.Sample(i)
		if err := net.CheckSample(i, image, label); err != nil {
			return Result{}, err
		}

		outputs := net.Forward(image)
		predicted := ArgMax(outputs)

		res.Total++
		if predicted == int(label) {
			res.Correct++
		}
		res.Cost += nn.SampleCost(outputs, nn.OneHot(expected, label))
		res.Confusion[label][predicted]++
	}
	return res, nil
}

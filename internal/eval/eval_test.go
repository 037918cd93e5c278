package eval

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/densenet/internal/dataset"
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/parallel"
)

// identityNet returns a single-layer 2→2 network that outputs its input.
func identityNet(t *testing.T) *nn.Network {
	t.Helper()
	net := nn.NewNetwork(1, 2, 2, nn.Identity, nn.Identity, nil)
	require.NoError(t, net.Layer(0).SetWeights([][]float64{{1, 0}, {0, 1}}))
	require.NoError(t, net.Layer(0).SetBias([]float64{0, 0}))
	return net
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, 2, ArgMax([]float64{0.1, 0.2, 0.9, 0.3}))
	assert.Equal(t, 0, ArgMax([]float64{0.5, 0.5}), "ties resolve to the lowest index")
	assert.Equal(t, 0, ArgMax([]float64{-1}))
}

func TestEvaluate(t *testing.T) {
	samples := &dataset.Dataset{
		Images: [][]byte{{5, 1}, {1, 5}, {5, 1}},
		Labels: []byte{0, 1, 1},
		Rows:   1,
		Cols:   2,
	}

	res, err := Evaluate(identityNet(t), samples, 0, parallel.Sequential())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Correct)
	assert.InDelta(t, 2.0/3.0, res.Accuracy(), 1e-12)
	// (5-1)² + 1², 1² + (5-1)², 5² + 0²
	assert.InDelta(t, 59.0, res.Cost, 1e-12)
	assert.InDelta(t, 59.0/3.0, res.MeanCost(), 1e-12)
	assert.Equal(t, [][]int{{1, 0}, {1, 1}}, res.Confusion)
	assert.Contains(t, res.String(), "2/3 correct")
}

func TestEvaluateLimit(t *testing.T) {
	samples := &dataset.Dataset{
		Images: [][]byte{{5, 1}, {1, 5}, {5, 1}},
		Labels: []byte{0, 1, 1},
	}

	res, err := Evaluate(identityNet(t), samples, 2, parallel.Sequential())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Correct)
	assert.InDelta(t, 1.0, res.Accuracy(), 1e-12)
}

func TestEvaluateEmpty(t *testing.T) {
	res, err := Evaluate(identityNet(t), &dataset.Dataset{}, 0, parallel.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.InDelta(t, 0.0, res.Accuracy(), 0)
	assert.InDelta(t, 0.0, res.MeanCost(), 0)
}

func TestEvaluateErrors(t *testing.T) {
	net := identityNet(t)

	_, err := Evaluate(net, &dataset.Dataset{Images: [][]byte{{1, 2, 3}}, Labels: []byte{0}}, 0, parallel.Sequential())
	assert.ErrorIs(t, err, nn.ErrInputSize)

	_, err = Evaluate(net, &dataset.Dataset{Images: [][]byte{{1, 2}}, Labels: []byte{7}}, 0, parallel.Sequential())
	assert.ErrorIs(t, err, nn.ErrLabelOutOfRange)
}

func TestEvaluateParallelMatchesSequential(t *testing.T) {
	samples := dataset.Synthetic(300, 4, 4, 4)

	net := nn.NewNetwork(3, 16, 4, nn.Sigmoid, nn.Sigmoid, rand.NewPCG(7, 11))
	net.SetLayerNodes(0, 8)
	net.SetLayerNodes(1, 6)

	seq, err := Evaluate(net, samples, 0, parallel.Sequential())
	require.NoError(t, err)

	par, err := Evaluate(net, samples, 0, parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16})
	require.NoError(t, err)

	assert.Equal(t, 300, par.Total)
	assert.Equal(t, seq.Total, par.Total)
	assert.Equal(t, seq.Correct, par.Correct)
	assert.Equal(t, seq.Confusion, par.Confusion)
	assert.InDelta(t, seq.Cost, par.Cost, 1e-9)

	// Cost agrees with the network's own dataset cost.
	mean, err := net.DatasetCost(samples, 0, samples.Len())
	require.NoError(t, err)
	assert.InDelta(t, mean, seq.MeanCost(), 1e-9)
}

func TestEvaluateLeavesNetworkUntouched(t *testing.T) {
	net := identityNet(t)
	samples := &dataset.Dataset{Images: [][]byte{{5, 1}}, Labels: []byte{0}}

	_, err := Evaluate(net, samples, 0, parallel.Sequential())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, net.Layer(0).Outputs())
}

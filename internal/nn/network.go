package nn

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Samples is the read-only view of a labeled dataset that the network
// trains and measures cost on. Images and labels are index-aligned.
type Samples interface {
	Len() int
	Sample(i int) (image []byte, label byte)
}

// Network is an ordered chain of Dense layers.
//
// For every adjacent pair, layers[i+1].Inputs() == layers[i].Nodes(). Every
// structural edit cascades to the neighbouring layer so the chain is never
// observable in a broken state.
//
// A Network is not safe for concurrent use: layers keep their outputs and
// deltas in place. Use Clone to give each goroutine its own copy.
//
// Example:
//
//	net := nn.NewNetwork(3, 28*28, 10, nn.Sigmoid, nn.Sigmoid, rand.NewPCG(1, 2))
//	net.SetLayerNodes(0, 32)
//	net.SetLayerNodes(1, 16)
//	prediction := net.Forward(image)
type Network struct {
	layers     []*Dense
	numInputs  int
	numOutputs int

	hidden Activation
	output Activation
	src    rand.Source

	input    []float64 // widened copy of the last raw sample
	expected []float64 // one-hot scratch
}

// NewNetwork builds a chain of numLayers layers.
//
// Layer 0 takes numInputs inputs, the last layer has numOutputs nodes and
// uses the output activation. Every other layer uses the hidden activation
// and starts with a single node; size them afterwards with SetLayerNodes.
// A single-layer network is just the output layer.
//
// Panics if any dimension is less than 1.
func NewNetwork(numLayers, numInputs, numOutputs int, hidden, output Activation, src rand.Source) *Network {
	if numLayers < 1 || numInputs < 1 || numOutputs < 1 {
		panic(fmt.Sprintf("NewNetwork: dimensions must be positive, got layers=%d inputs=%d outputs=%d",
			numLayers, numInputs, numOutputs))
	}

	layers := make([]*Dense, numLayers)
	width := numInputs
	for i := 0; i < numLayers-1; i++ {
		layers[i] = NewDense(1, width, hidden, src)
		width = 1
	}
	layers[numLayers-1] = NewDense(numOutputs, width, output, src)

	return &Network{
		layers:     layers,
		numInputs:  numInputs,
		numOutputs: numOutputs,
		hidden:     hidden,
		output:     output,
		src:        src,
		input:      make([]float64, numInputs),
		expected:   make([]float64, numOutputs),
	}
}

// NumLayers returns the number of layers.
func (n *Network) NumLayers() int {
	return len(n.layers)
}

// NumInputs returns the sample size the network accepts.
func (n *Network) NumInputs() int {
	return n.numInputs
}

// NumOutputs returns the length of the prediction vector.
func (n *Network) NumOutputs() int {
	return n.numOutputs
}

// Layer returns layer i, or nil if i is out of range.
func (n *Network) Layer(i int) *Dense {
	if i < 0 || i >= len(n.layers) {
		return nil
	}
	return n.layers[i]
}

// Shape returns the node count of every layer, input to output.
func (n *Network) Shape() []int {
	shape := make([]int, len(n.layers))
	for i, l := range n.layers {
		shape[i] = l.Nodes()
	}
	return shape
}

// Forward feeds a raw sample through every layer and returns the output
// layer's outputs.
//
// Bytes are widened to exact integers 0-255; they are not normalized. The
// returned slice belongs to the output layer and is overwritten by the
// next pass.
//
// Panics if len(input) != NumInputs().
func (n *Network) Forward(input []byte) []float64 {
	n.widen(input)
	return n.forward()
}

// ForwardFloat is Forward for samples that are already real-valued.
func (n *Network) ForwardFloat(input []float64) []float64 {
	if len(input) != n.numInputs {
		panic(fmt.Sprintf("Network.ForwardFloat: expected %d inputs, got %d", n.numInputs, len(input)))
	}
	copy(n.input, input)
	return n.forward()
}

func (n *Network) forward() []float64 {
	out := n.input
	for _, l := range n.layers {
		out = l.Forward(out)
	}
	return out
}

func (n *Network) widen(input []byte) {
	if len(input) != n.numInputs {
		panic(fmt.Sprintf("Network.Forward: expected %d inputs, got %d", n.numInputs, len(input)))
	}
	for i, b := range input {
		n.input[i] = float64(b)
	}
}

// Predict returns the index of the largest output for input.
func (n *Network) Predict(input []byte) int {
	return floats.MaxIdx(n.Forward(input))
}

// Cost runs a forward pass and sums the squared error against expected.
func (n *Network) Cost(input []byte, expected []float64) float64 {
	return SampleCost(n.Forward(input), expected)
}

// DatasetCost returns the average Cost over count consecutive samples
// starting at start, each compared with the one-hot vector of its label.
//
// The window is clipped to the dataset; an empty window costs 0.
func (n *Network) DatasetCost(samples Samples, start, count int) (float64, error) {
	start = max(start, 0)
	end := samples.Len()
	if count < end-start {
		end = start + count
	}
	if end <= start {
		return 0, nil
	}

	var total float64
	for i := start; i < end; i++ {
		image, label := samples.Sample(i)
		if err := n.CheckSample(i, image, label); err != nil {
			return 0, err
		}
		total += n.Cost(image, n.oneHot(label))
	}
	return total / float64(end-start), nil
}

// oneHot fills the network's one-hot scratch for label and returns it.
func (n *Network) oneHot(label byte) []float64 {
	return OneHot(n.expected, label)
}

// CheckSample reports whether sample i fits the network: the image must have
// NumInputs values and the label must index an output. The error wraps
// ErrInputSize or ErrLabelOutOfRange.
func (n *Network) CheckSample(i int, image []byte, label byte) error {
	if len(image) != n.numInputs {
		return fmt.Errorf("%w: sample %d has %d values, network takes %d", ErrInputSize, i, len(image), n.numInputs)
	}
	if int(label) >= n.numOutputs {
		return fmt.Errorf("%w: sample %d has label %d, network has %d outputs", ErrLabelOutOfRange, i, label, n.numOutputs)
	}
	return nil
}

// Backward runs a forward pass for input and accumulates this sample's
// gradient in every layer, output layer first.
//
// Layer 0 has no predecessor, so it is fed the widened raw sample.
func (n *Network) Backward(input []byte, expected []float64) {
	n.Forward(input)

	last := len(n.layers) - 1
	n.layers[last].AccumulateOutputGradient(n.layerInput(last), expected)
	for i := last - 1; i >= 0; i-- {
		n.layers[i].AccumulateHiddenGradient(n.layerInput(i), n.layers[i+1])
	}
}

// layerInput is what layer i consumed in the last forward pass.
func (n *Network) layerInput(i int) []float64 {
	if i == 0 {
		return n.input
	}
	return n.layers[i-1].Outputs()
}

// ApplyGradients applies every layer's averaged gradient and resets the
// accumulators.
func (n *Network) ApplyGradients(batchSize int, learningRate float64) {
	for _, l := range n.layers {
		l.ApplyGradient(batchSize, learningRate)
	}
}

// InitGradients opens a zeroed accumulation window in every layer.
func (n *Network) InitGradients() {
	for _, l := range n.layers {
		l.InitGradients()
	}
}

// FreeGradients drops every layer's accumulators.
func (n *Network) FreeGradients() {
	for _, l := range n.layers {
		l.FreeGradients()
	}
}

// Randomize redraws the weights of every layer.
func (n *Network) Randomize() {
	for _, l := range n.layers {
		l.Randomize()
	}
}

// Clone returns a deep copy of the network with its own scratch buffers.
func (n *Network) Clone() *Network {
	layers := make([]*Dense, len(n.layers))
	for i, l := range n.layers {
		layers[i] = l.Clone()
	}
	return &Network{
		layers:     layers,
		numInputs:  n.numInputs,
		numOutputs: n.numOutputs,
		hidden:     n.hidden,
		output:     n.output,
		src:        n.src,
		input:      make([]float64, n.numInputs),
		expected:   make([]float64, n.numOutputs),
	}
}

// String describes the chain, e.g. "Network(784 -> Dense(32x784, sigmoid) -> ...)".
func (n *Network) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Network(%d", n.numInputs)
	for _, l := range n.layers {
		fmt.Fprintf(&b, " -> %s", l)
	}
	b.WriteString(")")
	return b.String()
}

// DumpWeights writes every layer's header followed by its node weights,
// input side first.
func (n *Network) DumpWeights(w io.Writer) error {
	var b strings.Builder
	for i, l := range n.layers {
		fmt.Fprintf(&b, "layer %d %s\n", i, l)
		l.dumpWeights(&b, "  ")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

package nn

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Dense implements a fully connected layer with its own activation and
// per-batch gradient accumulators.
//
// Performs: outputs[n] = f(bias[n] + Σ_m input[m] * weights[n][m])
// where:
//   - weights has shape [nodes, inputs]
//   - bias, outputs and deltas have length nodes
//
// Outputs and deltas are scratch buffers owned by the layer and
// overwritten on every pass. The Network backward pass reads the outputs of
// layer i while computing the gradient of layer i+1, so they must stay
// valid until the next Forward call.
//
// Gradient accumulators are allocated by InitGradients (or lazily by the
// first Accumulate call), zeroed by ApplyGradient and dropped by
// FreeGradients.
//
// Example:
//
//	src := rand.NewPCG(1, 2)
//	layer := nn.NewDense(16, 784, nn.Sigmoid, src)
//	out := layer.Forward(input) // len(out) == 16
type Dense struct {
	nodes  int
	inputs int

	weights [][]float64 // [nodes][inputs]
	bias    []float64   // [nodes]
	outputs []float64   // [nodes]
	deltas  []float64   // [nodes]

	weightGrads [][]float64 // [nodes][inputs], nil outside a training pass
	biasGrads   []float64   // [nodes], nil outside a training pass

	activation Activation
	src        rand.Source
}

// NewDense creates a layer with nodes units fed by inputs values.
//
// Weights are drawn from U(-1, 1) using src (nil uses the process-wide
// generator). Every bias starts at InitialBias.
//
// Panics if nodes or inputs is less than 1.
func NewDense(nodes, inputs int, activation Activation, src rand.Source) *Dense {
	if nodes < 1 || inputs < 1 {
		panic(fmt.Sprintf("NewDense: dimensions must be positive, got nodes=%d inputs=%d", nodes, inputs))
	}
	return &Dense{
		nodes:      nodes,
		inputs:     inputs,
		weights:    uniformMatrix(nodes, inputs, src),
		bias:       filled(nodes, InitialBias),
		outputs:    make([]float64, nodes),
		deltas:     make([]float64, nodes),
		activation: activation,
		src:        src,
	}
}

// Nodes returns the number of units in the layer.
func (l *Dense) Nodes() int {
	return l.nodes
}

// Inputs returns the number of values each unit consumes.
func (l *Dense) Inputs() int {
	return l.inputs
}

// Activation returns the layer's activation.
func (l *Dense) Activation() Activation {
	return l.activation
}

// SetActivation replaces the layer's activation. Weights are untouched.
func (l *Dense) SetActivation(a Activation) {
	l.activation = a
}

// Weights returns the weight matrix. The slices alias the layer's storage.
func (l *Dense) Weights() [][]float64 {
	return l.weights
}

// Bias returns the bias vector. The slice aliases the layer's storage.
func (l *Dense) Bias() []float64 {
	return l.bias
}

// Outputs returns the outputs of the last Forward call.
func (l *Dense) Outputs() []float64 {
	return l.outputs
}

// Deltas returns the error signals of the last gradient computation.
func (l *Dense) Deltas() []float64 {
	return l.deltas
}

// WeightGradients returns the accumulated weight gradients, or nil when
// no accumulation window is open.
func (l *Dense) WeightGradients() [][]float64 {
	return l.weightGrads
}

// BiasGradients returns the accumulated bias gradients, or nil when no
// accumulation window is open.
func (l *Dense) BiasGradients() []float64 {
	return l.biasGrads
}

// SetWeights copies w into the layer. w must be [Nodes()][Inputs()].
func (l *Dense) SetWeights(w [][]float64) error {
	if len(w) != l.nodes {
		return fmt.Errorf("%w: expected %d weight rows, got %d", ErrShapeMismatch, l.nodes, len(w))
	}
	for i, row := range w {
		if len(row) != l.inputs {
			return fmt.Errorf("%w: weight row %d: expected %d entries, got %d",
				ErrShapeMismatch, i, l.inputs, len(row))
		}
	}
	for i, row := range w {
		copy(l.weights[i], row)
	}
	return nil
}

// SetBias copies b into the layer. b must have Nodes() entries.
func (l *Dense) SetBias(b []float64) error {
	if len(b) != l.nodes {
		return fmt.Errorf("%w: expected %d biases, got %d", ErrShapeMismatch, l.nodes, len(b))
	}
	copy(l.bias, b)
	return nil
}

// Randomize redraws every weight. Biases are left as they are.
func (l *Dense) Randomize() {
	for _, row := range l.weights {
		Uniform(row, l.src)
	}
}

// Forward computes the layer outputs for input.
//
// The returned slice is the layer's own outputs buffer; it is overwritten
// by the next call.
//
// Panics if len(input) != Inputs().
func (l *Dense) Forward(input []float64) []float64 {
	if len(input) != l.inputs {
		panic(fmt.Sprintf("Dense.Forward: expected %d inputs, got %d", l.inputs, len(input)))
	}
	for n, row := range l.weights {
		l.outputs[n] = l.activation.Func(l.bias[n] + floats.Dot(input, row))
	}
	return l.outputs
}

// AccumulateOutputGradient computes the deltas of an output layer and adds
// this sample's contribution to the gradient accumulators.
//
//	delta[i] = 2 * (outputs[i] - expected[i]) * f'(outputs[i])
//
// input is whatever was fed to Forward: the previous layer's outputs, or
// the raw sample for a single-layer network.
func (l *Dense) AccumulateOutputGradient(input, expected []float64) {
	if len(expected) != l.nodes {
		panic(fmt.Sprintf("Dense.AccumulateOutputGradient: expected %d targets, got %d", l.nodes, len(expected)))
	}
	for i, out := range l.outputs {
		l.deltas[i] = NodeCostDerivative(out, expected[i]) * l.activation.Derivative(out)
	}
	l.accumulate(input)
}

// AccumulateHiddenGradient computes the deltas of a hidden layer from the
// deltas of the layer that follows it, then adds this sample's contribution
// to the gradient accumulators.
//
//	delta[i] = (Σ_k next.deltas[k] * next.weights[k][i]) * f'(outputs[i])
func (l *Dense) AccumulateHiddenGradient(input []float64, next *Dense) {
	if next.inputs != l.nodes {
		panic(fmt.Sprintf("Dense.AccumulateHiddenGradient: next layer takes %d inputs, layer has %d nodes",
			next.inputs, l.nodes))
	}
	for i, out := range l.outputs {
		var sum float64
		for k, d := range next.deltas {
			sum += d * next.weights[k][i]
		}
		l.deltas[i] = sum * l.activation.Derivative(out)
	}
	l.accumulate(input)
}

// accumulate adds deltas (and deltas ⊗ input) to the accumulators.
func (l *Dense) accumulate(input []float64) {
	if len(input) != l.inputs {
		panic(fmt.Sprintf("Dense: expected %d inputs, got %d", l.inputs, len(input)))
	}
	if l.weightGrads == nil {
		l.InitGradients()
	}
	for i, d := range l.deltas {
		l.biasGrads[i] += d
		floats.AddScaled(l.weightGrads[i], d, input)
	}
}

// ApplyGradient performs one plain gradient descent step using the
// accumulated gradient averaged over batchSize, then zeroes the
// accumulators.
//
//	bias[i]       -= learningRate * biasGrads[i] / batchSize
//	weights[i][j] -= learningRate * weightGrads[i][j] / batchSize
//
// Panics if batchSize < 1.
func (l *Dense) ApplyGradient(batchSize int, learningRate float64) {
	if batchSize < 1 {
		panic(fmt.Sprintf("Dense.ApplyGradient: batch size must be positive, got %d", batchSize))
	}
	if l.weightGrads == nil {
		// Nothing accumulated since the window opened.
		return
	}
	batch := float64(batchSize)
	for i := range l.weights {
		l.bias[i] -= learningRate * (l.biasGrads[i] / batch)
		l.biasGrads[i] = 0

		w, g := l.weights[i], l.weightGrads[i]
		for j := range w {
			w[j] -= learningRate * (g[j] / batch)
		}
		clear(g)
	}
}

// InitGradients opens an accumulation window with zeroed accumulators.
func (l *Dense) InitGradients() {
	l.weightGrads = zeroMatrix(l.nodes, l.inputs)
	l.biasGrads = make([]float64, l.nodes)
}

// FreeGradients drops the accumulators.
func (l *Dense) FreeGradients() {
	l.weightGrads = nil
	l.biasGrads = nil
}

// Clone returns a deep copy of the layer. The random source is shared.
func (l *Dense) Clone() *Dense {
	return &Dense{
		nodes:       l.nodes,
		inputs:      l.inputs,
		weights:     cloneMatrix(l.weights),
		bias:        cloneSlice(l.bias),
		outputs:     cloneSlice(l.outputs),
		deltas:      cloneSlice(l.deltas),
		weightGrads: cloneMatrix(l.weightGrads),
		biasGrads:   cloneSlice(l.biasGrads),
		activation:  l.activation,
		src:         l.src,
	}
}

// String reports the layer shape, e.g. "Dense(16x784, sigmoid)".
func (l *Dense) String() string {
	return fmt.Sprintf("Dense(%dx%d, %s)", l.nodes, l.inputs, l.activation.Name)
}

// DumpWeights writes one line per node with its bias and weights:
//
//	node 0: bias=0.010000 weights=[0.123456 -0.654321]
func (l *Dense) DumpWeights(w io.Writer) error {
	var b strings.Builder
	l.dumpWeights(&b, "")
	_, err := io.WriteString(w, b.String())
	return err
}

func (l *Dense) dumpWeights(b *strings.Builder, indent string) {
	for n, row := range l.weights {
		fmt.Fprintf(b, "%snode %d: bias=%.6f weights=[", indent, n, l.bias[n])
		for m, v := range row {
			if m > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "%.6f", v)
		}
		b.WriteString("]\n")
	}
}

package nn

import "fmt"

// Two kinds of structural edits live here. ResizeNodes and ResizeInputs
// rebuild the whole layer and discard every weight. AddNode, RemoveNode,
// AddInput and RemoveInput touch a single row or column and keep the rest.

// ResizeNodes rebuilds the layer with n nodes.
//
// The new layer keeps the input count, activation and random source; all
// weights are redrawn and biases reset. Open gradient accumulators are
// reopened with the new shape.
//
// Panics if n < 1.
func (l *Dense) ResizeNodes(n int) {
	if n < 1 {
		panic(fmt.Sprintf("Dense.ResizeNodes: node count must be positive, got %d", n))
	}
	l.rebuild(n, l.inputs)
}

// ResizeInputs rebuilds the layer with n inputs per node. See ResizeNodes.
//
// Panics if n < 1.
func (l *Dense) ResizeInputs(n int) {
	if n < 1 {
		panic(fmt.Sprintf("Dense.ResizeInputs: input count must be positive, got %d", n))
	}
	l.rebuild(l.nodes, n)
}

func (l *Dense) rebuild(nodes, inputs int) {
	training := l.weightGrads != nil
	*l = *NewDense(nodes, inputs, l.activation, l.src)
	if training {
		l.InitGradients()
	}
}

// AddNode appends one node with freshly drawn weights and the initial bias.
func (l *Dense) AddNode() {
	row := make([]float64, l.inputs)
	Uniform(row, l.src)

	l.weights = append(l.weights, row)
	l.bias = append(l.bias, InitialBias)
	l.outputs = append(l.outputs, 0)
	l.deltas = append(l.deltas, 0)
	if l.weightGrads != nil {
		l.weightGrads = append(l.weightGrads, make([]float64, l.inputs))
		l.biasGrads = append(l.biasGrads, 0)
	}
	l.nodes++
}

// RemoveNode drops the last node. It refuses to remove the only node and
// reports whether a node was removed.
func (l *Dense) RemoveNode() bool {
	if l.nodes <= 1 {
		return false
	}
	last := l.nodes - 1
	l.weights = l.weights[:last]
	l.bias = l.bias[:last]
	l.outputs = l.outputs[:last]
	l.deltas = l.deltas[:last]
	if l.weightGrads != nil {
		l.weightGrads = l.weightGrads[:last]
		l.biasGrads = l.biasGrads[:last]
	}
	l.nodes--
	return true
}

// AddInput appends one input column with freshly drawn weights.
func (l *Dense) AddInput() {
	col := make([]float64, l.nodes)
	Uniform(col, l.src)

	for i := range l.weights {
		l.weights[i] = append(l.weights[i], col[i])
	}
	for i := range l.weightGrads {
		l.weightGrads[i] = append(l.weightGrads[i], 0)
	}
	l.inputs++
}

// RemoveInput drops the last input column. It refuses to remove the only
// input and reports whether a column was removed.
func (l *Dense) RemoveInput() bool {
	if l.inputs <= 1 {
		return false
	}
	last := l.inputs - 1
	for i := range l.weights {
		l.weights[i] = l.weights[i][:last]
	}
	for i := range l.weightGrads {
		l.weightGrads[i] = l.weightGrads[i][:last]
	}
	l.inputs--
	return true
}

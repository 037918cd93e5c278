package nn

// Structural edits. Index-based edits with an invalid index or size do
// nothing and return false; callers that don't care may ignore the result.

// SetLayerNodes rebuilds layer i with nodes units and resizes the inputs of
// the following layer to match. Resizing the output layer changes
// NumOutputs. Both rebuilt layers get fresh weights.
func (n *Network) SetLayerNodes(i, nodes int) bool {
	if !n.valid(i) || nodes < 1 {
		return false
	}
	n.layers[i].ResizeNodes(nodes)
	if i == len(n.layers)-1 {
		n.setNumOutputs(nodes)
	} else {
		n.layers[i+1].ResizeInputs(nodes)
	}
	return true
}

// SetLayerActivation replaces the activation of layer i.
func (n *Network) SetLayerActivation(i int, a Activation) bool {
	if !n.valid(i) {
		return false
	}
	n.layers[i].SetActivation(a)
	return true
}

// SetHiddenActivation replaces the activation of every layer but the
// output layer, and of hidden layers added later.
func (n *Network) SetHiddenActivation(a Activation) {
	n.hidden = a
	for _, l := range n.layers[:len(n.layers)-1] {
		l.SetActivation(a)
	}
}

// SetOutputActivation replaces the activation of the output layer.
func (n *Network) SetOutputActivation(a Activation) {
	n.output = a
	n.layers[len(n.layers)-1].SetActivation(a)
}

// AddLayer inserts a square hidden layer just before the output layer. Its
// width equals the output layer's input count, so no other layer changes.
func (n *Network) AddLayer() {
	last := len(n.layers) - 1
	n.InsertLayer(last, n.layers[last].Inputs())
}

// InsertLayer inserts a hidden layer with nodes units at position i, in
// front of the layer currently there. The new layer takes the width of its
// predecessor as input and its successor is resized to take nodes inputs.
// The output layer stays last: i must be in [0, NumLayers()-1].
func (n *Network) InsertLayer(i, nodes int) bool {
	if !n.valid(i) || nodes < 1 {
		return false
	}

	layer := NewDense(nodes, n.widthBefore(i), n.hidden, n.src)
	if n.training() {
		layer.InitGradients()
	}

	n.layers = append(n.layers, nil)
	copy(n.layers[i+1:], n.layers[i:])
	n.layers[i] = layer

	if next := n.layers[i+1]; next.Inputs() != nodes {
		next.ResizeInputs(nodes)
	}
	return true
}

// RemoveLayer removes the last hidden layer. A single-layer network is
// left unchanged.
func (n *Network) RemoveLayer() {
	n.RemoveLayerAt(len(n.layers) - 2)
}

// RemoveLayerAt removes layer i and resizes the inputs of its successor to
// the width of its predecessor. Removing the output layer promotes the
// layer before it to output layer. The last remaining layer cannot be
// removed.
func (n *Network) RemoveLayerAt(i int) bool {
	if len(n.layers) == 1 || !n.valid(i) {
		return false
	}

	last := len(n.layers) - 1
	n.layers = append(n.layers[:i], n.layers[i+1:]...)

	if i == last {
		out := n.layers[len(n.layers)-1]
		out.SetActivation(n.output)
		n.setNumOutputs(out.Nodes())
		return true
	}

	if width := n.widthBefore(i); n.layers[i].Inputs() != width {
		n.layers[i].ResizeInputs(width)
	}
	return true
}

// AddNode appends a node to layer i and a matching input column to the
// following layer. Existing weights are kept.
func (n *Network) AddNode(i int) bool {
	if !n.valid(i) {
		return false
	}
	n.layers[i].AddNode()
	if i == len(n.layers)-1 {
		n.setNumOutputs(n.layers[i].Nodes())
	} else {
		n.layers[i+1].AddInput()
	}
	return true
}

// RemoveNode drops the last node of layer i and the matching input column
// of the following layer. A layer keeps at least one node.
func (n *Network) RemoveNode(i int) bool {
	if !n.valid(i) || !n.layers[i].RemoveNode() {
		return false
	}
	if i == len(n.layers)-1 {
		n.setNumOutputs(n.layers[i].Nodes())
	} else {
		n.layers[i+1].RemoveInput()
	}
	return true
}

func (n *Network) valid(i int) bool {
	return i >= 0 && i < len(n.layers)
}

// widthBefore is the number of values layer i receives.
func (n *Network) widthBefore(i int) int {
	if i == 0 {
		return n.numInputs
	}
	return n.layers[i-1].Nodes()
}

func (n *Network) setNumOutputs(outputs int) {
	n.numOutputs = outputs
	n.expected = make([]float64, outputs)
}

// training reports whether an accumulation window is open.
func (n *Network) training() bool {
	return n.layers[0].WeightGradients() != nil
}

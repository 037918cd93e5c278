// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides dense feed-forward networks trained with
// back-propagation and mini-batch gradient descent.
//
// # Overview
//
// This package contains:
//   - Layers: Dense (fully connected, per-layer activation)
//   - Networks: Network, a chain of Dense layers with structural editing
//   - Activations: Sigmoid, ReLU (leaky), Tanh, Identity
//   - Cost: squared error per node and per sample
//   - Training: Train/TrainContext with TrainConfig
//
// # Basic Usage
//
//	import (
//	    "math/rand/v2"
//
//	    "github.com/born-ml/densenet/dataset"
//	    "github.com/born-ml/densenet/nn"
//	)
//
//	func main() {
//	    train, _ := dataset.LoadDir("./data", true)
//
//	    net := nn.NewNetwork(3, 784, 10, nn.Sigmoid, nn.Sigmoid, rand.NewPCG(1, 2))
//	    net.SetLayerNodes(0, 32)
//	    net.SetLayerNodes(1, 16)
//
//	    _ = net.Train(train, nn.TrainConfig{BatchSize: 10, LearningRate: 1, Epochs: 10})
//	    digit := net.Predict(train.Images[0])
//	}
//
// # Structural Editing
//
// Layers and nodes can be added or removed at any time. Every edit keeps
// the chain consistent: the input count of a layer always equals the node
// count of the layer before it.
//
//	net.AddLayer()        // new hidden layer before the output layer
//	net.AddNode(0)        // one more node in layer 0
//	net.RemoveLayerAt(1)  // drop layer 1, resizing its successor
//
// Index-based edits return false and change nothing when the index is out
// of range.
//
// # Inputs
//
// Samples are raw bytes. They are widened to float64 but not normalized,
// so MNIST pixels enter the first layer as 0-255.
//
// # Concurrency
//
// A Network is not safe for concurrent use. Forward-only work such as
// evaluation can run on clones (Network.Clone).
package nn

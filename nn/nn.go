// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/densenet/internal/nn"
)

// Activations

// Activation pairs an activation function with its derivative, expressed
// in terms of the function's output.
type Activation = nn.Activation

// Activation presets.
var (
	Sigmoid  = nn.Sigmoid  // Logistic function clamped to [0.01, 0.99].
	ReLU     = nn.ReLU     // Leaky ReLU with slope 0.01 below zero.
	Tanh     = nn.Tanh     // Hyperbolic tangent.
	Identity = nn.Identity // No activation.
)

// ActivationByName returns the preset registered under name.
func ActivationByName(name string) (Activation, error) {
	return nn.ActivationByName(name)
}

// ActivationNames lists the registered presets.
func ActivationNames() []string {
	return nn.ActivationNames()
}

// Layers

// Dense represents a fully connected layer with its own activation.
type Dense = nn.Dense

// NewDense creates a layer with nodes units fed by inputs values.
//
// Example:
//
//	layer := nn.NewDense(16, 784, nn.Sigmoid, rand.NewPCG(1, 2))
func NewDense(nodes, inputs int, activation Activation, src rand.Source) *Dense {
	return nn.NewDense(nodes, inputs, activation, src)
}

// Network

// Network is an ordered chain of Dense layers.
type Network = nn.Network

// Samples is the read-only view of a labeled dataset.
type Samples = nn.Samples

// NewNetwork builds a chain of numLayers layers.
//
// Example:
//
//	net := nn.NewNetwork(3, 784, 10, nn.Sigmoid, nn.Sigmoid, rand.NewPCG(1, 2))
//	net.SetLayerNodes(0, 32)
//	net.SetLayerNodes(1, 16)
func NewNetwork(numLayers, numInputs, numOutputs int, hidden, output Activation, src rand.Source) *Network {
	return nn.NewNetwork(numLayers, numInputs, numOutputs, hidden, output, src)
}

// Training

// TrainConfig holds hyperparameters and hooks for Network.Train.
type TrainConfig = nn.TrainConfig

// Progress is one training progress report.
type Progress = nn.Progress

// Cost

// NodeCost is the squared error of a single output unit.
func NodeCost(output, expected float64) float64 {
	return nn.NodeCost(output, expected)
}

// SampleCost sums NodeCost over every output unit.
func SampleCost(outputs, expected []float64) float64 {
	return nn.SampleCost(outputs, expected)
}

// OneHot zeroes dst, sets dst[label] to 1 and returns dst.
func OneHot(dst []float64, label byte) []float64 {
	return nn.OneHot(dst, label)
}

// Errors

// Sentinel errors returned by training and configuration.
var (
	ErrUnknownActivation = nn.ErrUnknownActivation
	ErrShapeMismatch     = nn.ErrShapeMismatch
	ErrInvalidBatchSize  = nn.ErrInvalidBatchSize
	ErrEmptyDataset      = nn.ErrEmptyDataset
	ErrLabelOutOfRange   = nn.ErrLabelOutOfRange
	ErrInputSize         = nn.ErrInputSize
)

package nn

import (
	"fmt"
	"math"
	"strings"
)

// Sigmoid output bounds. Keeping outputs away from 0 and 1 stops the
// derivative y*(1-y) from collapsing to zero.
const (
	SigmoidMin = 0.01
	SigmoidMax = 0.99
)

// Activation pairs an element-wise activation function with its derivative.
//
// Derivative is evaluated at the node's output, not at the pre-activation
// sum. For sigmoid this gives the familiar f'(y) = y * (1 - y).
//
// Example:
//
//	layer := nn.NewDense(16, 784, nn.Sigmoid, src)
//	layer.SetActivation(nn.ReLU)
type Activation struct {
	Name       string
	Func       func(x float64) float64
	Derivative func(y float64) float64
}

// Sigmoid is the logistic function clamped to [SigmoidMin, SigmoidMax].
var Sigmoid = Activation{
	Name:       "sigmoid",
	Func:       SigmoidFunc,
	Derivative: SigmoidDerivative,
}

// SigmoidFunc returns 1 / (1 + e^-x) clamped to [SigmoidMin, SigmoidMax].
func SigmoidFunc(x float64) float64 {
	y := 1 / (1 + math.Exp(-x))
	if y > SigmoidMax {
		return SigmoidMax
	}
	if y < SigmoidMin {
		return SigmoidMin
	}
	return y
}

// SigmoidDerivative returns y * (1 - y) for a sigmoid output y.
func SigmoidDerivative(y float64) float64 {
	return y * (1 - y)
}

// ReLU is a leaky rectifier: x for x >= 0, 0.01x otherwise.
var ReLU = Activation{
	Name:       "relu",
	Func:       ReLUFunc,
	Derivative: ReLUDerivative,
}

// ReLUFunc returns x if x >= 0 and 0.01x otherwise.
func ReLUFunc(x float64) float64 {
	if x >= 0 {
		return x
	}
	return x * 0.01
}

// ReLUDerivative returns 1 for non-negative outputs and 0 otherwise.
func ReLUDerivative(y float64) float64 {
	if y >= 0 {
		return 1
	}
	return 0
}

// Tanh is the hyperbolic tangent activation.
var Tanh = Activation{
	Name:       "tanh",
	Func:       math.Tanh,
	Derivative: TanhDerivative,
}

// TanhDerivative returns 1 - y² for a tanh output y.
func TanhDerivative(y float64) float64 {
	return 1 - y*y
}

// Identity passes the pre-activation sum through unchanged.
var Identity = Activation{
	Name:       "identity",
	Func:       func(x float64) float64 { return x },
	Derivative: func(float64) float64 { return 1 },
}

var activations = map[string]Activation{
	Sigmoid.Name:  Sigmoid,
	ReLU.Name:     ReLU,
	Tanh.Name:     Tanh,
	Identity.Name: Identity,
}

// ActivationByName returns the preset registered under name (case-insensitive).
func ActivationByName(name string) (Activation, error) {
	a, ok := activations[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Activation{}, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
	}
	return a, nil
}

// ActivationNames lists the registered presets in a stable order.
func ActivationNames() []string {
	return []string{Sigmoid.Name, ReLU.Name, Tanh.Name, Identity.Name}
}

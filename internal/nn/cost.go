package nn

// NodeCost is the squared error of a single output unit: (output - expected)².
func NodeCost(output, expected float64) float64 {
	diff := output - expected
	return diff * diff
}

// NodeCostDerivative is d/d(output) of NodeCost: 2 * (output - expected).
func NodeCostDerivative(output, expected float64) float64 {
	return 2 * (output - expected)
}

// SampleCost sums NodeCost over every output unit.
//
// Panics if outputs and expected differ in length.
func SampleCost(outputs, expected []float64) float64 {
	if len(outputs) != len(expected) {
		panic("SampleCost: outputs and expected must have the same length")
	}
	var cost float64
	for i, o := range outputs {
		cost += NodeCost(o, expected[i])
	}
	return cost
}

// OneHot zeroes dst, sets dst[label] to 1 and returns dst.
//
// Panics if label is out of range for dst.
func OneHot(dst []float64, label byte) []float64 {
	clear(dst)
	dst[label] = 1
	return dst
}

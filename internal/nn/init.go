package nn

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Bounds of the uniform distribution new weights are drawn from.
const (
	WeightMin = -1.0
	WeightMax = 1.0
)

// InitialBias is the value every bias starts at.
const InitialBias = 0.01

// Uniform fills data with independent draws from U(WeightMin, WeightMax).
//
// src supplies the randomness; nil falls back to the process-wide
// generator. Passing the same seeded source gives reproducible weights.
func Uniform(data []float64, src rand.Source) {
	dist := distuv.Uniform{Min: WeightMin, Max: WeightMax, Src: src}
	for i := range data {
		data[i] = dist.Rand()
	}
}

// uniformMatrix allocates a rows×cols matrix of uniform weights.
func uniformMatrix(rows, cols int, src rand.Source) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		Uniform(m[i], src)
	}
	return m
}

// filled returns a slice of length n with every element set to v.
func filled(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// zeroMatrix allocates a rows×cols matrix of zeros.
func zeroMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// cloneMatrix deep-copies m; nil stays nil.
func cloneMatrix(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	c := make([][]float64, len(m))
	for i, row := range m {
		c[i] = append([]float64(nil), row...)
	}
	return c
}

// cloneSlice copies s; nil stays nil.
func cloneSlice(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append([]float64(nil), s...)
}

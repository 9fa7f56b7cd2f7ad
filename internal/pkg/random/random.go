// Package random abstracts the randomness draw behind the simulated
// payment gateway so tests can force the success and failure branches.
package random

import "math/rand"

type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

type RealSource struct{}

func NewRealSource() Source {
	return &RealSource{}
}

func (s *RealSource) Float64() float64 {
	return rand.Float64()
}

// FixedSource always returns the same value. A value below the configured
// success probability forces settlement, a value at or above it forces the
// expiration path.
type FixedSource struct {
	Value float64
}

func NewFixedSource(v float64) *FixedSource {
	return &FixedSource{Value: v}
}

func (s *FixedSource) Float64() float64 {
	return s.Value
}

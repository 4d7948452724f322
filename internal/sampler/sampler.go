// Package sampler draws outcomes from a finite discrete distribution.
//
// Outcomes keep the order they were given in. Their probabilities are turned
// into cumulative right-open boundaries once, and a uniform u in [0,1) picks
// the first outcome whose upper boundary exceeds u.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"mutsim/internal/nuc"
)

// Rand is the random source the sampler and the mutators draw from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

var ErrEmpty = errors.New("sampler: empty distribution")

// Distribution is an immutable discrete distribution over K.
type Distribution[K comparable] struct {
	outcomes []K
	probs    []float64
	bounds   []float64 // cumulative; +Inf from last onwards
	last     int       // last outcome with positive probability
}

// New builds a distribution. Probabilities need not sum to exactly 1;
// checking that is the caller's job. Negative or NaN weights are rejected.
func New[K comparable](outcomes []K, probs []float64) (*Distribution[K], error) {
	if len(outcomes) == 0 {
		return nil, ErrEmpty
	}
	if len(outcomes) != len(probs) {
		return nil, fmt.Errorf("sampler: %d outcomes but %d probabilities", len(outcomes), len(probs))
	}
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) {
			return nil, fmt.Errorf("sampler: probability %v for outcome %v", p, outcomes[i])
		}
	}
	d := &Distribution[K]{
		outcomes: append([]K(nil), outcomes...),
		probs:    append([]float64(nil), probs...),
		bounds:   floats.CumSum(make([]float64, len(probs)), probs),
		last:     len(probs) - 1,
	}
	for d.last > 0 && probs[d.last] == 0 {
		d.last--
	}
	// Round-off can leave the total just under 1; anything past the last
	// real boundary lands on the last outcome that can actually occur.
	for i := d.last; i < len(d.bounds); i++ {
		d.bounds[i] = math.Inf(1)
	}
	return d, nil
}

// Prob returns the probability assigned to the i-th outcome.
func (d *Distribution[K]) Prob(i int) float64 { return d.probs[i] }

// Sum returns the total probability mass.
func (d *Distribution[K]) Sum() float64 { return floats.Sum(d.probs) }

// Index maps a uniform u in [0,1) to an outcome index.
func (d *Distribution[K]) Index(u float64) int {
	return sort.Search(len(d.bounds), func(i int) bool { return d.bounds[i] > u })
}

// Pick returns the outcome for a uniform u already drawn by the caller.
func (d *Distribution[K]) Pick(u float64) K { return d.outcomes[d.Index(u)] }

// Draw returns one outcome.
func (d *Distribution[K]) Draw(r Rand) K { return d.Pick(r.Float64()) }

// DrawCodes returns n independent outcome indices. All n uniforms are drawn
// first; each code is then the number of boundaries not above its uniform,
// computed one boundary at a time over the whole vector.
func (d *Distribution[K]) DrawCodes(r Rand, n int) ([]int, error) {
	if n < 0 {
		return nil, &nuc.RangeError{What: "draw count", Value: n}
	}
	u := make([]float64, n)
	for i := range u {
		u[i] = r.Float64()
	}
	return d.Codes(u), nil
}

// Codes maps a vector of uniforms to outcome indices. Codes(u)[i] equals
// Index(u[i]).
func (d *Distribution[K]) Codes(u []float64) []int {
	codes := make([]int, len(u))
	for j := 0; j < d.last; j++ {
		b := d.bounds[j]
		for i, x := range u {
			if x >= b {
				codes[i]++
			}
		}
	}
	return codes
}

// DrawBatch returns n independent outcomes.
func (d *Distribution[K]) DrawBatch(r Rand, n int) ([]K, error) {
	codes, err := d.DrawCodes(r, n)
	if err != nil {
		return nil, err
	}
	out := make([]K, n)
	for i, c := range codes {
		out[i] = d.outcomes[c]
	}
	return out, nil
}

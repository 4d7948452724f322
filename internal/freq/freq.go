// Package freq counts base composition and compares compositions.
package freq

import (
	"encoding/json"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"mutsim/internal/nuc"
)

// Map holds one relative frequency per base, in nuc.Bases order.
type Map [nuc.N]float64

// Uniform is 0.25 for every base.
var Uniform = Map{0.25, 0.25, 0.25, 0.25}

// Counts returns absolute base counts. Codes outside A,C,G,T are skipped.
func Counts(seq nuc.Sequence) [nuc.N]int {
	var c [nuc.N]int
	for _, b := range seq {
		if b.Valid() {
			c[b]++
		}
	}
	return c
}

// Count returns relative base frequencies over the valid bases of seq.
// A sequence with no valid bases yields zeros.
func Count(seq nuc.Sequence) Map {
	var m Map
	c := Counts(seq)
	n := 0
	for _, v := range c {
		n += v
	}
	if n == 0 {
		return m
	}
	for i, v := range c {
		m[i] = float64(v) / float64(n)
	}
	return m
}

// Sum returns the total mass (1 for any non-empty count).
func (m Map) Sum() float64 { return floats.Sum(m[:]) }

// Labels returns the label view, e.g. {"A": 0.25, ...}.
func (m Map) Labels() map[string]float64 {
	out := make(map[string]float64, nuc.N)
	for _, b := range nuc.Bases {
		out[b.String()] = m[b]
	}
	return out
}

// Distance is the L1 distance between two compositions.
func Distance(a, b Map) float64 {
	return floats.Distance(a[:], b[:], 1)
}

// ChiSquare compares observed counts with the counts expected under want.
// Bases with zero expected count are skipped.
func ChiSquare(obs [nuc.N]int, want Map) float64 {
	n := 0
	for _, c := range obs {
		n += c
	}
	var o, e []float64
	for i, c := range obs {
		exp := want[i] * float64(n)
		if exp == 0 {
			continue
		}
		o = append(o, float64(c))
		e = append(e, exp)
	}
	if len(e) == 0 {
		return 0
	}
	return stat.ChiSquare(o, e)
}

// Format renders m as "A=0.2500 C=0.2500 G=0.2500 T=0.2500".
func Format(m Map) string {
	var b strings.Builder
	for i, base := range nuc.Bases {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%.4f", base, m[base])
	}
	return b.String()
}

// MarshalJSON writes the label view.
func (m Map) MarshalJSON() ([]byte, error) { return json.Marshal(m.Labels()) }

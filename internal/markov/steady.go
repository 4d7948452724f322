package markov

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"mutsim/internal/freq"
	"mutsim/internal/nuc"
)

func (t Table) dense() *mat.Dense {
	d := mat.NewDense(nuc.N, nuc.N, nil)
	for i := range t {
		d.SetRow(i, t[i][:])
	}
	return d
}

// SteadyState returns, for each destination base, the probability of
// landing on it after one mutation from a uniformly chosen source base:
// sum over i of t[i][b], divided by 4.
func SteadyState(t Table) freq.Map {
	prior := mat.NewVecDense(nuc.N, append([]float64(nil), freq.Uniform[:]...))
	var out mat.VecDense
	out.MulVec(t.dense().T(), prior)
	var m freq.Map
	for i := range m {
		m[i] = out.AtVec(i)
	}
	return m
}

// Stationary returns the long-run composition π with πP = π, found by
// power iteration from the uniform prior. It fails if the L1 change per
// step is still above tol after maxIter steps (e.g. a periodic table).
func Stationary(t Table, tol float64, maxIter int) (freq.Map, error) {
	if tol <= 0 {
		tol = 1e-12
	}
	if maxIter <= 0 {
		maxIter = 10000
	}
	pt := t.dense().T()
	cur := mat.NewVecDense(nuc.N, append([]float64(nil), freq.Uniform[:]...))
	next := mat.NewVecDense(nuc.N, nil)
	for it := 0; it < maxIter; it++ {
		next.MulVec(pt, cur)
		if s := floats.Sum(next.RawVector().Data); s > 0 {
			next.ScaleVec(1/s, next)
		}
		diff := floats.Distance(next.RawVector().Data, cur.RawVector().Data, 1)
		cur, next = next, cur
		if diff <= tol {
			var m freq.Map
			copy(m[:], cur.RawVector().Data)
			return m, nil
		}
	}
	return freq.Map{}, fmt.Errorf("markov: stationary distribution did not converge in %d steps", maxIter)
}

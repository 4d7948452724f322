// Package mutate applies random point substitutions to a sequence in place.
//
// Every function checks its arguments before the first write, so an error
// means the sequence is untouched.
package mutate

import (
	"mutsim/internal/markov"
	"mutsim/internal/nuc"
	"mutsim/internal/sampler"
)

func checkCount(seq nuc.Sequence, count int) error {
	if count < 0 || (count > 0 && len(seq) == 0) {
		return &nuc.RangeError{What: "count", Value: count, Len: len(seq)}
	}
	for i, b := range seq {
		if !b.Valid() {
			return &nuc.DomainError{Pos: i, Symbol: byte(b)}
		}
	}
	return nil
}

// Uniform applies count events one after another: a uniform position gets a
// uniform base. The new base may equal the old one.
func Uniform(seq nuc.Sequence, count int, r sampler.Rand) error {
	if err := checkCount(seq, count); err != nil {
		return err
	}
	for k := 0; k < count; k++ {
		pos := r.Intn(len(seq))
		seq[pos] = nuc.Base(r.Intn(nuc.N))
	}
	return nil
}

// UniformBatch draws all count positions, then all count bases, and writes
// them in draw order. A position drawn twice keeps its later base.
func UniformBatch(seq nuc.Sequence, count int, r sampler.Rand) error {
	if err := checkCount(seq, count); err != nil {
		return err
	}
	pos := drawPositions(r, len(seq), count)
	bases := make([]nuc.Base, count)
	for i := range bases {
		bases[i] = nuc.Base(r.Intn(nuc.N))
	}
	for i, p := range pos {
		seq[p] = bases[i]
	}
	return nil
}

// Markov applies count events one after another. Each event picks a uniform
// position and replaces its base with a draw from that base's row of t, so
// event k+1 sees what event k wrote.
func Markov(seq nuc.Sequence, t markov.Table, count int, r sampler.Rand) error {
	if err := checkCount(seq, count); err != nil {
		return err
	}
	rows, err := t.Rows()
	if err != nil {
		return err
	}
	for k := 0; k < count; k++ {
		pos := r.Intn(len(seq))
		seq[pos] = rows[seq[pos]].Draw(r)
	}
	return nil
}

// MarkovBatch draws all positions and all uniforms up front, then resolves
// the events strictly in draw order: each event conditions on the base as
// left by the events before it, so repeated positions chain exactly as in
// Markov and the final state has the same distribution.
func MarkovBatch(seq nuc.Sequence, t markov.Table, count int, r sampler.Rand) error {
	if err := checkCount(seq, count); err != nil {
		return err
	}
	rows, err := t.Rows()
	if err != nil {
		return err
	}
	pos := drawPositions(r, len(seq), count)
	u := make([]float64, count)
	for i := range u {
		u[i] = r.Float64()
	}
	for k, p := range pos {
		seq[p] = rows[seq[p]].Pick(u[k])
	}
	return nil
}

func drawPositions(r sampler.Rand, n, count int) []int {
	pos := make([]int, count)
	for i := range pos {
		pos[i] = r.Intn(n)
	}
	return pos
}

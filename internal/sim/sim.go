package sim

import (
	"math/rand"
	"time"

	"mutsim/internal/nuc"
	"mutsim/internal/sampler"
)

// Make returns a random sequence of given length with ~gc fraction G+C.
// If seed==0 we use a time-based seed; otherwise results are reproducible.
func Make(length int, gc float64, seed int64) nuc.Sequence {
	return MakeFrom(rand.New(rand.NewSource(Seed(seed))), length, gc)
}

// Seed maps 0 to a time-based seed and returns anything else unchanged.
func Seed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// MakeFrom is Make drawing from an existing source, so one seeded stream can
// drive both the start sequence and the mutations that follow.
func MakeFrom(r sampler.Rand, length int, gc float64) nuc.Sequence {
	if length <= 0 {
		return nuc.Sequence{}
	}
	if gc < 0 {
		gc = 0
	}
	if gc > 1 {
		gc = 1
	}

	gcCount := int(float64(length)*gc + 0.5) // nearest integer
	if gcCount > length {
		gcCount = length
	}

	seq := make(nuc.Sequence, length)

	// Fill exact composition.
	for i := 0; i < gcCount; i++ {
		seq[i] = pick(r, nuc.G, nuc.C)
	}
	for i := gcCount; i < length; i++ {
		seq[i] = pick(r, nuc.A, nuc.T)
	}

	// Shuffle to disperse bases.
	for i := length - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		seq[i], seq[j] = seq[j], seq[i]
	}
	return seq
}

func pick(r sampler.Rand, a, b nuc.Base) nuc.Base {
	if r.Intn(2) == 0 {
		return a
	}
	return b
}

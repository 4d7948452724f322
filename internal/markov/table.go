// Package markov builds and checks the 4×4 base-substitution table used by
// the Markov mutator, and derives target compositions from it.
package markov

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"mutsim/internal/nuc"
	"mutsim/internal/sampler"
)

// DefaultTolerance is the row-sum tolerance used when none is given.
const DefaultTolerance = 1e-6

// Table[i][j] is the probability that base i mutates into base j.
type Table [nuc.N][nuc.N]float64

// ValidationError reports a row whose probabilities do not sum to 1, or
// that holds a negative entry.
type ValidationError struct {
	Base nuc.Base
	Sum  float64
	Neg  bool // a negative entry, Sum is that entry
}

func (e *ValidationError) Error() string {
	if e.Neg {
		return fmt.Sprintf("transition row %s: negative probability %g", e.Base, e.Sum)
	}
	return fmt.Sprintf("transition row %s sums to %.12g, want 1", e.Base, e.Sum)
}

// Random draws a table row by row: three uniforms plus 0 and 1 are sorted
// and the four gaps become the probabilities for A,C,G,T.
func Random(r sampler.Rand) Table {
	var t Table
	for i := range t {
		cuts := []float64{0, r.Float64(), r.Float64(), r.Float64(), 1}
		sort.Float64s(cuts)
		for j := 0; j < nuc.N; j++ {
			t[i][j] = cuts[j+1] - cuts[j]
		}
	}
	return t
}

// Prescribed returns rows unchanged as a Table.
func Prescribed(rows [nuc.N][nuc.N]float64) Table { return Table(rows) }

// Build picks between a random and a prescribed table.
func Build(random bool, prescribed *Table, r sampler.Rand) (Table, error) {
	switch {
	case prescribed != nil && !random:
		return *prescribed, nil
	case random:
		if r == nil {
			return Table{}, errors.New("markov: random table needs a random source")
		}
		return Random(r), nil
	default:
		return Table{}, errors.New("markov: no prescribed table given")
	}
}

// FromMap converts the label view {"A": {"A": p, ...}, ...}. Every source
// and destination base must be present; any other key is a *nuc.DomainError.
func FromMap(m map[string]map[string]float64) (Table, error) {
	var t Table
	var seen [nuc.N]bool
	for src, row := range m {
		i, err := nuc.ParseLabel(src)
		if err != nil {
			return Table{}, err
		}
		if seen[i] {
			return Table{}, fmt.Errorf("markov: duplicate row %s", i)
		}
		seen[i] = true
		var cols [nuc.N]bool
		for dst, p := range row {
			j, err := nuc.ParseLabel(dst)
			if err != nil {
				return Table{}, err
			}
			if cols[j] {
				return Table{}, fmt.Errorf("markov: duplicate entry %s->%s", i, j)
			}
			cols[j] = true
			t[i][j] = p
		}
		for _, b := range nuc.Bases {
			if !cols[b] {
				return Table{}, fmt.Errorf("markov: row %s missing destination %s", i, b)
			}
		}
	}
	for _, b := range nuc.Bases {
		if !seen[b] {
			return Table{}, fmt.Errorf("markov: missing row %s", b)
		}
	}
	return t, nil
}

// Map returns the label view of t.
func (t Table) Map() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, nuc.N)
	for _, i := range nuc.Bases {
		row := make(map[string]float64, nuc.N)
		for _, j := range nuc.Bases {
			row[j.String()] = t[i][j]
		}
		out[i.String()] = row
	}
	return out
}

// Validate checks every row in A,C,G,T order and reports the first one
// whose sum is off by more than tol. tol <= 0 means DefaultTolerance.
func Validate(t Table, tol float64) error {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	for _, i := range nuc.Bases {
		sum := 0.0
		for _, p := range t[i] {
			if p < 0 {
				return &ValidationError{Base: i, Sum: p, Neg: true}
			}
			sum += p
		}
		if math.IsNaN(sum) || math.Abs(sum-1) > tol {
			return &ValidationError{Base: i, Sum: sum}
		}
	}
	return nil
}

// Row returns the destination distribution for source base b.
func (t Table) Row(b nuc.Base) (*sampler.Distribution[nuc.Base], error) {
	return sampler.New(nuc.Bases[:], t[b][:])
}

// Rows returns all four row distributions, indexed by source base.
func (t Table) Rows() ([nuc.N]*sampler.Distribution[nuc.Base], error) {
	var rows [nuc.N]*sampler.Distribution[nuc.Base]
	for _, b := range nuc.Bases {
		d, err := t.Row(b)
		if err != nil {
			return rows, fmt.Errorf("row %s: %w", b, err)
		}
		rows[b] = d
	}
	return rows, nil
}

// Decode reads a table in its label-view JSON form.
func Decode(r io.Reader) (Table, error) {
	var m map[string]map[string]float64
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Table{}, fmt.Errorf("markov: decode table: %w", err)
	}
	return FromMap(m)
}

// Load reads a JSON table from path.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return Decode(f)
}

// MarshalJSON writes the label view.
func (t Table) MarshalJSON() ([]byte, error) { return json.Marshal(t.Map()) }

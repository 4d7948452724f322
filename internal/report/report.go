// Package report writes the composition trajectory of a run and its JSON
// summary.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"mutsim/internal/freq"
	"mutsim/internal/markov"
	"mutsim/internal/nuc"
)

// Snapshot is the composition after Step mutation events.
type Snapshot struct {
	Step int      `json:"step"`
	Comp freq.Map `json:"composition"`
	Dist float64  `json:"distance"` // L1 distance from the target
}

// Trajectory writes one TSV row per snapshot:
//
//	#step	A	C	G	T	dist
type Trajectory struct {
	bw     *bufio.Writer
	c      io.Closer
	target freq.Map
	snaps  []Snapshot
}

// New opens path for writing ("-" = stdout) and writes the header.
func New(path string, target freq.Map) (*Trajectory, error) {
	if path == "-" || path == "" {
		return NewWriter(os.Stdout, nil, target)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	tr, err := NewWriter(f, f, target)
	if err != nil {
		f.Close()
		return nil, err
	}
	return tr, nil
}

// NewWriter is New on an open writer; c (may be nil) is closed by Close.
func NewWriter(w io.Writer, c io.Closer, target freq.Map) (*Trajectory, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("#step\tA\tC\tG\tT\tdist\n"); err != nil {
		return nil, err
	}
	return &Trajectory{bw: bw, c: c, target: target}, nil
}

// Record appends the composition of seq after step events.
func (t *Trajectory) Record(step int, seq nuc.Sequence) error {
	comp := freq.Count(seq)
	s := Snapshot{Step: step, Comp: comp, Dist: freq.Distance(comp, t.target)}
	t.snaps = append(t.snaps, s)
	_, err := fmt.Fprintf(t.bw, "%d\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n",
		s.Step, comp[nuc.A], comp[nuc.C], comp[nuc.G], comp[nuc.T], s.Dist)
	return err
}

// Snapshots returns everything recorded so far.
func (t *Trajectory) Snapshots() []Snapshot { return t.snaps }

// Close flushes and closes the underlying file.
func (t *Trajectory) Close() error {
	err := t.bw.Flush()
	if t.c != nil {
		if cerr := t.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Summary is the JSON run summary.
type Summary struct {
	RunID       string        `json:"run_id"`
	Model       string        `json:"model"`
	Seed        int64         `json:"seed"`
	Count       int           `json:"count"`
	Batch       bool          `json:"batch"`
	Length      int           `json:"length"`
	Initial     freq.Map      `json:"initial"`
	Final       freq.Map      `json:"final"`
	Target      freq.Map      `json:"target"`
	SteadyState *freq.Map     `json:"steady_state,omitempty"`
	Table       *markov.Table `json:"table,omitempty"`
	ChiSquare   float64       `json:"chi_square"`
	Snapshots   []Snapshot    `json:"snapshots,omitempty"`
}

// NewSummary stamps a fresh run id.
func NewSummary(model string, seed int64) Summary {
	return Summary{RunID: uuid.NewString(), Model: model, Seed: seed}
}

// Finish fills the final composition and goodness of fit from seq.
func (s *Summary) Finish(seq nuc.Sequence) {
	s.Length = len(seq)
	s.Final = freq.Count(seq)
	s.ChiSquare = freq.ChiSquare(freq.Counts(seq), s.Target)
}

// WriteJSON writes s to path.
func WriteJSON(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("encode json: %w", err)
	}
	return f.Close()
}

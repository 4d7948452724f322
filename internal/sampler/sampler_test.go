package sampler

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"mutsim/internal/nuc"
)

// seqRand replays fixed uniforms.
type seqRand struct {
	u []float64
	i int
}

func (s *seqRand) Float64() float64 { v := s.u[s.i%len(s.u)]; s.i++; return v }
func (s *seqRand) Intn(n int) int    { return int(s.Float64() * float64(n)) }

var acgt = []string{"A", "C", "G", "T"}

func TestDraw_Unbiased(t *testing.T) {
	probs := []float64{0.1, 0.2, 0.3, 0.4}
	d, err := New(acgt, probs)
	if err != nil {
		t.Fatal(err)
	}
	r := rand.New(rand.NewSource(42))
	const N = 10000
	counts := map[string]int{}
	for i := 0; i < N; i++ {
		counts[d.Draw(r)]++
	}
	for i, k := range acgt {
		got := float64(counts[k]) / N
		if math.Abs(got-probs[i]) > 0.02 {
			t.Fatalf("%s: freq %.4f want %.2f±0.02", k, got, probs[i])
		}
	}
}

func TestDrawBatch_Unbiased(t *testing.T) {
	probs := []float64{0.5, 0, 0.25, 0.25}
	d, _ := New(acgt, probs)
	r := rand.New(rand.NewSource(7))
	const N = 20000
	out, err := d.DrawBatch(r, N)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != N {
		t.Fatalf("len: got %d want %d", len(out), N)
	}
	counts := map[string]int{}
	for _, k := range out {
		counts[k]++
	}
	if counts["C"] != 0 {
		t.Fatalf("zero-probability outcome drawn %d times", counts["C"])
	}
	for i, k := range acgt {
		got := float64(counts[k]) / N
		if math.Abs(got-probs[i]) > 0.02 {
			t.Fatalf("%s: freq %.4f want %.2f±0.02", k, got, probs[i])
		}
	}
}

func TestDraw_Degenerate(t *testing.T) {
	d, _ := New(acgt, []float64{1, 0, 0, 0})
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		if k := d.Draw(r); k != "A" {
			t.Fatalf("draw %d: got %s want A", i, k)
		}
	}
	out, _ := d.DrawBatch(r, 5000)
	for i, k := range out {
		if k != "A" {
			t.Fatalf("batch draw %d: got %s want A", i, k)
		}
	}
}

func TestCodes_MatchIndex(t *testing.T) {
	d, _ := New(acgt, []float64{0.25, 0.25, 0, 0.5})
	u := []float64{0, 0.1, 0.2499, 0.25, 0.4999, 0.5, 0.75, 0.999999}
	codes := d.Codes(u)
	for i, x := range u {
		if codes[i] != d.Index(x) {
			t.Fatalf("u=%v: batch code %d, scalar index %d", x, codes[i], d.Index(x))
		}
	}
	want := []int{0, 0, 0, 1, 1, 3, 3, 3}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("u=%v: got %d want %d", u[i], codes[i], want[i])
		}
	}
}

func TestDraw_ClampShortSum(t *testing.T) {
	// sums to 0.9: u above every real boundary goes to the last outcome
	d, _ := New(acgt, []float64{0.3, 0.3, 0.3, 0})
	r := &seqRand{u: []float64{0.95}}
	if k := d.Draw(r); k != "G" {
		t.Fatalf("got %s want G (last positive outcome)", k)
	}
	d2, _ := New(acgt, []float64{0.2, 0.2, 0.2, 0.3})
	if k := d2.Draw(&seqRand{u: []float64{0.99}}); k != "T" {
		t.Fatalf("got %s want T", k)
	}
}

func TestBatchAndScalar_SameStream(t *testing.T) {
	d, _ := New(acgt, []float64{0.1, 0.4, 0.4, 0.1})
	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))
	batch, _ := d.DrawBatch(a, 1000)
	for i, k := range batch {
		if s := d.Draw(b); s != k {
			t.Fatalf("draw %d: batch %s scalar %s", i, k, s)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New([]string{}, nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}
	if _, err := New(acgt, []float64{1}); err == nil {
		t.Fatalf("length mismatch accepted")
	}
	if _, err := New(acgt, []float64{0.5, -0.1, 0.3, 0.3}); err == nil {
		t.Fatalf("negative probability accepted")
	}
	if _, err := New(acgt, []float64{0.5, math.NaN(), 0.3, 0.2}); err == nil {
		t.Fatalf("NaN probability accepted")
	}
}

func TestDrawBatch_NegativeCount(t *testing.T) {
	d, _ := New(acgt, []float64{0.25, 0.25, 0.25, 0.25})
	var re *nuc.RangeError
	_, err := d.DrawBatch(rand.New(rand.NewSource(1)), -1)
	if !errors.As(err, &re) {
		t.Fatalf("want RangeError, got %v", err)
	}
	if err.Error() != "draw count -1 is negative" {
		t.Fatalf("message %q", err)
	}
	out, err := d.DrawBatch(rand.New(rand.NewSource(1)), 0)
	if err != nil || len(out) != 0 {
		t.Fatalf("n=0: got %v,%v", out, err)
	}
}

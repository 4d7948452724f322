package freq

import (
	"math"
	"testing"

	"mutsim/internal/nuc"
)

func TestCount(t *testing.T) {
	seq := nuc.MustParse("ACGGAGATTTCGGTATGCAT")
	m := Count(seq)
	want := Map{5.0 / 20, 3.0 / 20, 6.0 / 20, 6.0 / 20}
	for i := range want {
		if math.Abs(m[i]-want[i]) > 1e-12 {
			t.Fatalf("%v: got %.4f want %.4f", nuc.Bases[i], m[i], want[i])
		}
	}
	if math.Abs(m.Sum()-1) > 1e-12 {
		t.Fatalf("sum %.15f", m.Sum())
	}
	if Count(nil) != (Map{}) {
		t.Fatalf("empty sequence should count to zeros")
	}
}

func TestFormat(t *testing.T) {
	got := Format(Map{0.5, 0.25, 0.125, 0.125})
	want := "A=0.5000 C=0.2500 G=0.1250 T=0.1250"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Uniform, Uniform); d != 0 {
		t.Fatalf("self distance %v", d)
	}
	if d := Distance(Map{1, 0, 0, 0}, Uniform); math.Abs(d-1.5) > 1e-12 {
		t.Fatalf("got %v want 1.5", d)
	}
}

func TestChiSquare(t *testing.T) {
	if x := ChiSquare([nuc.N]int{25, 25, 25, 25}, Uniform); x != 0 {
		t.Fatalf("perfect fit gave %v", x)
	}
	// (40-25)^2/25 + 3*(20-25)^2/25 = 9 + 3 = 12
	if x := ChiSquare([nuc.N]int{40, 20, 20, 20}, Uniform); math.Abs(x-12) > 1e-9 {
		t.Fatalf("got %v want 12", x)
	}
	if x := ChiSquare([nuc.N]int{10, 0, 0, 0}, Map{1, 0, 0, 0}); x != 0 {
		t.Fatalf("zero-expected bases must be skipped, got %v", x)
	}
}

func TestLabels(t *testing.T) {
	l := Map{0.1, 0.2, 0.3, 0.4}.Labels()
	if l["G"] != 0.3 || len(l) != 4 {
		t.Fatalf("bad labels %v", l)
	}
}

func TestMarshalJSON(t *testing.T) {
	raw, err := Map{0.5, 0, 0.5, 0}.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"A":0.5,"C":0,"G":0.5,"T":0}` {
		t.Fatalf("got %s", raw)
	}
}

func TestCount_SkipsInvalidCodes(t *testing.T) {
	seq := nuc.Sequence{nuc.A, nuc.Base(9), nuc.T, nuc.T}
	c := Counts(seq)
	if c != [nuc.N]int{1, 0, 0, 2} {
		t.Fatalf("counts %v", c)
	}
	m := Count(seq)
	if math.Abs(m[nuc.T]-2.0/3) > 1e-12 || math.Abs(m.Sum()-1) > 1e-12 {
		t.Fatalf("frequencies %v", m)
	}
	if Count(nuc.Sequence{nuc.Base(5)}) != (Map{}) {
		t.Fatalf("no valid bases should count to zeros")
	}
}

// internal/nuc/base.go
package nuc

import "fmt"

// Base is a nucleotide code. The zero value is A.
type Base uint8

const (
	A Base = iota
	C
	G
	T
)

// N is the alphabet size.
const N = 4

// Bases lists the alphabet in its fixed order.
var Bases = [N]Base{A, C, G, T}

const letters = "ACGT"

// code per ASCII letter; 0xFF = not a base
var codeMap = func() [256]uint8 {
	var m [256]uint8
	for i := range m {
		m[i] = 0xFF
	}
	for i := 0; i < N; i++ {
		m[letters[i]] = uint8(i)
		m[letters[i]+('a'-'A')] = uint8(i) // lower case folds
	}
	return m
}()

// Letter returns the upper-case letter for b.
func (b Base) Letter() byte {
	if int(b) >= N {
		return '?'
	}
	return letters[b]
}

func (b Base) String() string { return string(b.Letter()) }

// Valid reports whether b is one of A,C,G,T.
func (b Base) Valid() bool { return b < N }

// ParseBase converts one letter (either case).
func ParseBase(c byte) (Base, error) {
	v := codeMap[c]
	if v == 0xFF {
		return 0, &DomainError{Pos: -1, Symbol: c}
	}
	return Base(v), nil
}

// ParseLabel converts a one-letter label such as "A" or "g".
func ParseLabel(s string) (Base, error) {
	if len(s) != 1 {
		return 0, &DomainError{Pos: -1, Label: s}
	}
	return ParseBase(s[0])
}

// DomainError reports a symbol outside {A,C,G,T}.
// Pos is -1 when the symbol did not come from a sequence position.
type DomainError struct {
	Pos    int
	Symbol byte
	Label  string // set instead of Symbol for multi-byte labels
}

func (e *DomainError) Error() string {
	sym := fmt.Sprintf("%q", e.Symbol)
	if e.Label != "" || e.Symbol == 0 {
		sym = fmt.Sprintf("%q", e.Label)
	}
	if e.Pos < 0 {
		return fmt.Sprintf("invalid base %s", sym)
	}
	return fmt.Sprintf("invalid base %s at position %d", sym, e.Pos)
}

// RangeError reports a count or index outside its valid range.
// It is returned before anything is written.
type RangeError struct {
	What  string // "count", "position", ...
	Value int
	Len   int // sequence length the value was checked against
}

func (e *RangeError) Error() string {
	if e.Value < 0 && e.What != "position" {
		return fmt.Sprintf("%s %d is negative", e.What, e.Value)
	}
	if e.What == "count" {
		return fmt.Sprintf("%s %d out of range (sequence length %d)", e.What, e.Value, e.Len)
	}
	return fmt.Sprintf("%s %d out of range [0,%d)", e.What, e.Value, e.Len)
}

package nuc

// Sequence is a fixed-length, in-place mutable run of bases.
type Sequence []Base

// Parse converts letters to a Sequence. Any symbol other than
// A,C,G,T (either case) is a *DomainError carrying its position.
func Parse(s []byte) (Sequence, error) {
	out := make(Sequence, len(s))
	for i, c := range s {
		v := codeMap[c]
		if v == 0xFF {
			return nil, &DomainError{Pos: i, Symbol: c}
		}
		out[i] = Base(v)
	}
	return out, nil
}

// MustParse is Parse for literals; it panics on bad input.
func MustParse(s string) Sequence {
	seq, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return seq
}

// At returns the base at i.
func (s Sequence) At(i int) (Base, error) {
	if i < 0 || i >= len(s) {
		return 0, &RangeError{What: "position", Value: i, Len: len(s)}
	}
	return s[i], nil
}

// Set writes b at i.
func (s Sequence) Set(i int, b Base) error {
	if i < 0 || i >= len(s) {
		return &RangeError{What: "position", Value: i, Len: len(s)}
	}
	if !b.Valid() {
		return &DomainError{Pos: i, Symbol: byte(b)}
	}
	s[i] = b
	return nil
}

// Bytes renders the sequence as upper-case letters.
func (s Sequence) Bytes() []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		out[i] = b.Letter()
	}
	return out
}

func (s Sequence) String() string { return string(s.Bytes()) }

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

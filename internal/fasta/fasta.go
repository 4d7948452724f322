package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"

	"mutsim/internal/nuc"
)

const bufSize = 4 << 20 // 4 MiB

var ErrNoRecords = errors.New("fasta: no records")

// Record is one FASTA entry.
type Record struct {
	ID  string
	Seq []byte // upper-case, no newlines
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open returns a reader for path ("-" = stdin). Gzip input is detected by
// its magic bytes and decompressed.
func Open(path string) (io.ReadCloser, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
	}
	var closers []io.Closer
	if f != os.Stdin {
		closers = append(closers, f)
	}
	br := bufio.NewReaderSize(f, bufSize)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			readCloser{closers: closers}.Close()
			return nil, fmt.Errorf("fasta: gzip: %w", err)
		}
		return readCloser{Reader: bufio.NewReaderSize(zr, bufSize), closers: append([]io.Closer{zr}, closers...)}, nil
	}
	return readCloser{Reader: br, closers: closers}, nil
}

// Stream reads `path` and sends each record down the chan.
// It closes the channel when done or on first error (returned).
func Stream(path string, out chan<- Record) error {
	defer close(out)
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return Scan(rc, func(rec Record) error {
		out <- rec
		return nil
	})
}

// Scan calls fn for every record in r; a non-nil return from fn stops it.
func Scan(r io.Reader, fn func(Record) error) error {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, bufSize)
	}
	var (
		id  []byte
		seq []byte
	)
	flush := func() error {
		if id == nil {
			return nil
		}
		rec := Record{ID: string(id), Seq: bytes.ToUpper(seq)}
		seq = nil
		return fn(rec)
	}
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 && line[0] == '>' { // header
			if ferr := flush(); ferr != nil {
				return ferr
			}
			fields := bytes.Fields(line[1:])
			id = []byte{}
			if len(fields) > 0 {
				id = fields[0] // up to first space
			}
		} else if id != nil {
			seq = append(seq, bytes.TrimSpace(line)...)
		}
		if err == io.EOF {
			return flush()
		}
	}
}

// ReadFirst returns the first record of path parsed as a sequence.
func ReadFirst(path string) (string, nuc.Sequence, error) {
	return ReadRecord(path, "")
}

// ReadRecord returns the record named id ("" = first record) parsed as a
// sequence. The whole input is read.
func ReadRecord(path, id string) (string, nuc.Sequence, error) {
	ch := make(chan Record, 2)
	errc := make(chan error, 1)
	go func() { errc <- Stream(path, ch) }()

	var (
		found *Record
		n     int
	)
	for rec := range ch {
		n++
		if found == nil && (id == "" || rec.ID == id) {
			r := rec
			found = &r
		}
	}
	if err := <-errc; err != nil {
		return "", nil, err
	}
	if n == 0 {
		return "", nil, ErrNoRecords
	}
	if found == nil {
		return "", nil, fmt.Errorf("fasta: record %q not found", id)
	}
	seq, err := nuc.Parse(found.Seq)
	if err != nil {
		return "", nil, fmt.Errorf("record %s: %w", found.ID, err)
	}
	return found.ID, seq, nil
}

// Write emits one record wrapped at width columns (0 = no wrapping).
func Write(w io.Writer, id string, seq nuc.Sequence, width int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, ">%s\n", id); err != nil {
		return err
	}
	b := seq.Bytes()
	if width <= 0 {
		width = len(b)
	}
	for len(b) > 0 {
		n := width
		if n > len(b) {
			n = len(b)
		}
		bw.Write(b[:n])
		bw.WriteByte('\n')
		b = b[n:]
	}
	return bw.Flush()
}

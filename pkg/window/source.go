package window

import "io"

// Source is a forward-only supply of units. Read fills p with up to len(p)
// units and returns io.EOF once the source is exhausted. Any io.Reader is a
// Source[byte].
type Source[U any] interface {
	Read(p []U) (n int, err error)
}

// maxEmptyReads bounds how often a source may return (0, nil) in a row.
const maxEmptyReads = 100

// readFull reads until p is full, the source reports io.EOF, or it fails.
// A short count with a nil error means the source is exhausted.
func readFull[U any](src Source[U], p []U) (int, error) {
	n, empty := 0, 0
	for n < len(p) {
		m, err := src.Read(p[n:])
		n += m
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if m > 0 {
			empty = 0
			continue
		}
		if empty++; empty >= maxEmptyReads {
			return n, io.ErrNoProgress
		}
	}
	return n, nil
}

type runeSource struct {
	rr io.RuneReader
}

// Runes adapts an io.RuneReader into a Source of runes. Invalid UTF-8 comes
// through as utf8.RuneError, as with bufio.Reader.
func Runes(rr io.RuneReader) Source[rune] {
	return &runeSource{rr: rr}
}

func (s *runeSource) Read(p []rune) (int, error) {
	for i := range p {
		r, _, err := s.rr.ReadRune()
		if err != nil {
			return i, err
		}
		p[i] = r
	}
	return len(p), nil
}

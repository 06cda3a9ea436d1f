package window

import (
	"io"
	"log/slog"

	sqlerr "sqlsplit/pkg/error"
	"sqlsplit/pkg/iterator"
	"sqlsplit/pkg/logging"
)

// Unit is one element of the source together with its absolute position.
type Unit[U any] struct {
	Pos   int64
	Value U
}

// Reader produces the units of a Source in order, keeping a bounded window of
// them in memory.
//
// The buffer index of the next unit is LookBehind + cursor. The cursor starts
// at -LookBehind so production begins at buffer index 0. When the cursor
// reaches ChunkSize, the first ChunkSize units are dropped, a new chunk is
// appended and the cursor moves back by ChunkSize; dropped counts the
// discarded units so positions stay absolute.
type Reader[U any] struct {
	src Source[U]
	cfg Config

	buf     []U
	chunk   []U
	cursor  int
	dropped int64
	eof     bool
	err     error

	log *slog.Logger
}

var _ iterator.Iterator[Unit[rune]] = (*Reader[rune])(nil)

// NewReader validates cfg and fills the initial window from src. A failing
// first read is returned unchanged.
func NewReader[U any](src Source[U], cfg Config) (*Reader[U], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Reader[U]{
		src:    src,
		cfg:    cfg,
		cursor: -cfg.LookBehind,
		log:    logging.WithComponent("window"),
	}

	buf := make([]U, cfg.WindowSize)
	n, err := readFull(src, buf)
	if err != nil {
		return nil, err
	}
	r.buf = buf[:n]
	r.eof = n < cfg.WindowSize

	if !cfg.refillable() && !r.eof {
		r.log.Warn("window cannot refill; production stops after the first window",
			"window", cfg.WindowSize, "lookbehind", cfg.LookBehind, "chunk", cfg.ChunkSize)
	}
	return r, nil
}

// index is the buffer index of the next unit.
func (r *Reader[U]) index() int {
	return r.cfg.LookBehind + r.cursor
}

// refill drops the oldest chunk and reads a new one once the cursor has
// crossed the chunk threshold.
func (r *Reader[U]) refill() error {
	if r.eof || r.cursor < r.cfg.ChunkSize {
		return nil
	}

	if r.chunk == nil {
		r.chunk = make([]U, r.cfg.ChunkSize)
	}
	n, err := readFull(r.src, r.chunk)
	if err != nil {
		r.err = err
		return err
	}
	if n < r.cfg.ChunkSize {
		r.eof = true
	}
	if n == 0 {
		return nil
	}

	kept := copy(r.buf, r.buf[r.cfg.ChunkSize:])
	r.buf = append(r.buf[:kept], r.chunk[:n]...)
	r.cursor -= r.cfg.ChunkSize
	r.dropped += int64(r.cfg.ChunkSize)

	r.log.Debug("window refilled", "dropped", r.dropped, "read", n, "eof", r.eof)
	return nil
}

// exhausted reports whether production has ended: the logical window is used
// up or the source is drained and the cursor has passed the last unit.
func (r *Reader[U]) exhausted() bool {
	idx := r.index()
	return idx >= r.cfg.WindowSize || idx >= len(r.buf)
}

// HasNext reports whether Next will produce a unit.
func (r *Reader[U]) HasNext() (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if err := r.refill(); err != nil {
		return false, err
	}
	return !r.exhausted(), nil
}

// Next produces the next unit and its absolute position. It returns io.EOF
// once the window is exhausted and the source error, unchanged, if a refill
// fails.
func (r *Reader[U]) Next() (Unit[U], error) {
	var zero Unit[U]

	ok, err := r.HasNext()
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, io.EOF
	}

	idx := r.index()
	u := Unit[U]{Pos: r.dropped + int64(idx), Value: r.buf[idx]}
	r.cursor++
	return u, nil
}

// Consume advances the position by n units without producing them. A skip
// spanning several chunks refills once per chunk crossed. Once the source is
// exhausted the cursor simply moves; skipping past the last unit makes the
// next call to Next return io.EOF.
func (r *Reader[U]) Consume(n int) error {
	if n < 0 {
		err := sqlerr.New(sqlerr.ErrCategoryUser, sqlerr.CodeNegativeSkip, "cannot skip backwards").
			WithDetail("n=%d", n)
		err.Operation = "Consume"
		err.Component = "Window"
		return err
	}
	if r.err != nil {
		return r.err
	}

	r.cursor += n
	for !r.eof && r.cursor >= r.cfg.ChunkSize {
		if err := r.refill(); err != nil {
			return err
		}
	}
	return nil
}

// Ahead returns the buffered units starting at the next position. The slice
// aliases the buffer and is only valid until the next call to Next, Consume or
// Ahead. An empty result means production has ended.
func (r *Reader[U]) Ahead() ([]U, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := r.refill(); err != nil {
		return nil, err
	}
	if r.exhausted() {
		return nil, nil
	}
	end := min(len(r.buf), r.cfg.WindowSize)
	return r.buf[r.index():end], nil
}

// Behind returns up to n units immediately before the next position. At
// least LookBehind units are available once production has passed them. The
// slice aliases the buffer like Ahead.
func (r *Reader[U]) Behind(n int) []U {
	idx := min(r.index(), len(r.buf))
	start := max(0, idx-n)
	return r.buf[start:idx]
}

// Pos returns the absolute position of the next unit.
func (r *Reader[U]) Pos() int64 {
	return r.dropped + int64(r.index())
}

// AtEOF reports whether the source has been drained into the buffer.
func (r *Reader[U]) AtEOF() bool {
	return r.eof
}

// Buffered returns the number of units currently held in the window.
func (r *Reader[U]) Buffered() int {
	return len(r.buf)
}

// Footprint returns the capacity, in units, of everything the Reader has
// allocated: the window plus the refill chunk.
func (r *Reader[U]) Footprint() int {
	return cap(r.buf) + cap(r.chunk)
}

// Config returns the configuration the Reader was built with.
func (r *Reader[U]) Config() Config {
	return r.cfg
}

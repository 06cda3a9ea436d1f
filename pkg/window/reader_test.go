package window

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	sqlerr "sqlsplit/pkg/error"
	"sqlsplit/pkg/iterator"
)

// chunkySource hands out at most max units per Read to exercise readFull.
type chunkySource struct {
	data []byte
	max  int
}

func (s *chunkySource) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := min(len(p), s.max, len(s.data))
	copy(p, s.data[:n])
	s.data = s.data[n:]
	return n, nil
}

// failingSource returns err once ok units have been read.
type failingSource struct {
	ok  int
	err error
}

func (s *failingSource) Read(p []byte) (int, error) {
	if s.ok == 0 {
		return 0, s.err
	}
	n := min(len(p), s.ok)
	for i := range p[:n] {
		p[i] = 'x'
	}
	s.ok -= n
	return n, nil
}

func sample(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte('a' + i%26)
	}
	return out
}

func drain(t *testing.T, r *Reader[byte]) []Unit[byte] {
	t.Helper()
	units, err := iterator.Collect[Unit[byte]](r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return units
}

func TestReader_ProducesEverySourceUnit(t *testing.T) {
	configs := []Config{
		{WindowSize: 8, LookBehind: 2, ChunkSize: 4},
		{WindowSize: 16, LookBehind: 0, ChunkSize: 16},
		{WindowSize: 10, LookBehind: 3, ChunkSize: 5},
		{WindowSize: 64, LookBehind: 8, ChunkSize: 7},
		{WindowSize: 1, LookBehind: 0, ChunkSize: 1},
	}
	lengths := []int{0, 1, 7, 8, 20, 64, 100, 1000}

	for _, cfg := range configs {
		for _, n := range lengths {
			data := sample(n)
			r, err := NewReader[byte](&chunkySource{data: data, max: 3}, cfg)
			if err != nil {
				t.Fatalf("%+v: NewReader failed: %v", cfg, err)
			}

			units := drain(t, r)
			if len(units) != n {
				t.Errorf("%+v len=%d: expected %d units, got %d", cfg, n, n, len(units))
				continue
			}
			for i, u := range units {
				if u.Pos != int64(i) {
					t.Errorf("%+v len=%d: expected position %d, got %d", cfg, n, i, u.Pos)
					break
				}
				if u.Value != data[i] {
					t.Errorf("%+v len=%d: expected %q at %d, got %q", cfg, n, data[i], i, u.Value)
					break
				}
			}
		}
	}
}

func TestReader_WindowCapStopsProduction(t *testing.T) {
	// LookBehind+ChunkSize exceeds WindowSize, so the cursor runs off the
	// logical window before a refill is ever due.
	cfg := Config{WindowSize: 10, LookBehind: 4, ChunkSize: 8}
	r, err := NewReader[byte](bytes.NewReader(sample(100)), cfg)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	units := drain(t, r)
	if len(units) != 10 {
		t.Fatalf("expected production to stop after 10 units, got %d", len(units))
	}
	for i, u := range units {
		if u.Pos != int64(i) {
			t.Errorf("expected position %d, got %d", i, u.Pos)
		}
	}
}

func TestReader_ConsumeMatchesStepping(t *testing.T) {
	cfg := Config{WindowSize: 8, LookBehind: 2, ChunkSize: 4}
	data := sample(37)

	for n := 0; n < len(data); n++ {
		skipped, _ := NewReader[byte](bytes.NewReader(data), cfg)
		if err := skipped.Consume(n); err != nil {
			t.Fatalf("Consume(%d) failed: %v", n, err)
		}
		got, err := skipped.Next()
		if err != nil {
			t.Fatalf("Next after Consume(%d) failed: %v", n, err)
		}

		stepped, _ := NewReader[byte](bytes.NewReader(data), cfg)
		for i := 0; i < n; i++ {
			if _, err := stepped.Next(); err != nil {
				t.Fatalf("step %d failed: %v", i, err)
			}
		}
		want, err := stepped.Next()
		if err != nil {
			t.Fatalf("Next after %d steps failed: %v", n, err)
		}

		if got != want {
			t.Errorf("n=%d: Consume gave %+v, stepping gave %+v", n, got, want)
		}
		if got.Pos != int64(n) || got.Value != data[n] {
			t.Errorf("n=%d: expected (%d, %q), got (%d, %q)", n, n, data[n], got.Pos, got.Value)
		}
	}
}

func TestReader_ConsumeInterleaved(t *testing.T) {
	cfg := Config{WindowSize: 12, LookBehind: 3, ChunkSize: 5}
	data := sample(200)
	r, _ := NewReader[byte](bytes.NewReader(data), cfg)

	want := int64(0)
	for _, skip := range []int{0, 1, 4, 5, 6, 13, 2, 27, 0, 40} {
		if err := r.Consume(skip); err != nil {
			t.Fatalf("Consume(%d) failed: %v", skip, err)
		}
		want += int64(skip)
		if r.Pos() != want {
			t.Fatalf("expected Pos %d after Consume(%d), got %d", want, skip, r.Pos())
		}

		u, err := r.Next()
		if err != nil {
			t.Fatalf("Next failed at %d: %v", want, err)
		}
		if u.Pos != want || u.Value != data[want] {
			t.Fatalf("expected (%d, %q), got (%d, %q)", want, data[want], u.Pos, u.Value)
		}
		want++
	}
}

func TestReader_ConsumePastEnd(t *testing.T) {
	cfg := Config{WindowSize: 8, LookBehind: 2, ChunkSize: 4}
	r, _ := NewReader[byte](bytes.NewReader(sample(20)), cfg)

	if err := r.Consume(25); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if !r.AtEOF() {
		t.Error("expected source to be drained")
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after skipping past the end, got %v", err)
	}
	if ok, _ := r.HasNext(); ok {
		t.Error("expected HasNext=false")
	}
}

func TestReader_ConsumeNegative(t *testing.T) {
	r, _ := NewReader[byte](bytes.NewReader(sample(4)), Config{WindowSize: 4, ChunkSize: 2})

	err := r.Consume(-1)
	var se *sqlerr.Error
	if !errors.As(err, &se) || se.Code != sqlerr.CodeNegativeSkip {
		t.Errorf("expected NEGATIVE_SKIP error, got %v", err)
	}
}

func TestReader_LookBehindSurvivesRefill(t *testing.T) {
	cfg := Config{WindowSize: 16, LookBehind: 4, ChunkSize: 8}
	data := sample(300)
	r, _ := NewReader[byte](bytes.NewReader(data), cfg)

	for i := 0; i < len(data); i++ {
		u, err := r.Next()
		if err != nil {
			t.Fatalf("Next failed at %d: %v", i, err)
		}

		behind := r.Behind(cfg.LookBehind)
		wantLen := min(i+1, cfg.LookBehind)
		if len(behind) < wantLen {
			t.Fatalf("pos %d: expected at least %d look-behind units, got %d", u.Pos, wantLen, len(behind))
		}
		start := int(u.Pos) + 1 - len(behind)
		if !bytes.Equal(behind, data[start:u.Pos+1]) {
			t.Fatalf("pos %d: expected look-behind %q, got %q", u.Pos, data[start:u.Pos+1], behind)
		}
	}
}

func TestReader_AheadTracksCursor(t *testing.T) {
	cfg := Config{WindowSize: 8, LookBehind: 2, ChunkSize: 4}
	data := []byte("SELECT 1; SELECT 2;")
	r, _ := NewReader[byte](bytes.NewReader(data), cfg)

	var rebuilt []byte
	for {
		ahead, err := r.Ahead()
		if err != nil {
			t.Fatalf("Ahead failed: %v", err)
		}
		if len(ahead) == 0 {
			break
		}
		if !bytes.HasPrefix(data[r.Pos():], ahead) {
			t.Fatalf("pos %d: Ahead %q is not a prefix of the remaining input", r.Pos(), ahead)
		}
		step := min(len(ahead), 3)
		rebuilt = append(rebuilt, ahead[:step]...)
		if err := r.Consume(step); err != nil {
			t.Fatalf("Consume failed: %v", err)
		}
	}

	if !bytes.Equal(rebuilt, data) {
		t.Errorf("expected %q, got %q", data, rebuilt)
	}
}

func TestReader_BoundedMemory(t *testing.T) {
	cfg := Config{WindowSize: 64, LookBehind: 8, ChunkSize: 16}
	src := &chunkySource{data: sample(1 << 20), max: 1000}
	r, err := NewReader[byte](src, cfg)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	count := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
		if r.Buffered() > cfg.WindowSize {
			t.Fatalf("buffer grew to %d units", r.Buffered())
		}
		if r.Footprint() > cfg.WindowSize+cfg.ChunkSize {
			t.Fatalf("footprint grew to %d units", r.Footprint())
		}
	}

	if count != 1<<20 {
		t.Errorf("expected %d units, got %d", 1<<20, count)
	}
}

func TestReader_SourceErrorPropagatesUnchanged(t *testing.T) {
	boom := errors.New("disk on fire")
	cfg := Config{WindowSize: 8, LookBehind: 2, ChunkSize: 4}

	if _, err := NewReader[byte](&failingSource{ok: 3, err: boom}, cfg); err != boom {
		t.Errorf("expected initial read error to be returned as-is, got %v", err)
	}

	r, err := NewReader[byte](&failingSource{ok: 8, err: boom}, cfg)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	var last error
	for i := 0; i < 20 && last == nil; i++ {
		_, last = r.Next()
	}
	if last != boom {
		t.Fatalf("expected refill error to surface as-is, got %v", last)
	}
	if _, err := r.Next(); err != boom {
		t.Errorf("expected error to be sticky, got %v", err)
	}
	if err := r.Consume(1); err != boom {
		t.Errorf("expected Consume to report the sticky error, got %v", err)
	}
}

func TestReader_Runes(t *testing.T) {
	input := "SELECT 'héllo' -- ünïcode\n"
	r, err := NewReader[rune](Runes(strings.NewReader(input)), Config{WindowSize: 6, LookBehind: 1, ChunkSize: 3})
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var b strings.Builder
	pos := int64(0)
	for {
		u, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.Pos != pos {
			t.Fatalf("expected rune position %d, got %d", pos, u.Pos)
		}
		pos++
		b.WriteRune(u.Value)
	}

	if b.String() != input {
		t.Errorf("expected %q, got %q", input, b.String())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		valid bool
	}{
		{"default", DefaultConfig(), true},
		{"minimal", Config{WindowSize: 1, ChunkSize: 1}, true},
		{"zero chunk", Config{WindowSize: 8, ChunkSize: 0}, false},
		{"negative look-behind", Config{WindowSize: 8, LookBehind: -1, ChunkSize: 4}, false},
		{"window smaller than chunk", Config{WindowSize: 4, ChunkSize: 8}, false},
		{"look-behind fills window", Config{WindowSize: 8, LookBehind: 8, ChunkSize: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.valid {
				var se *sqlerr.Error
				if !errors.As(err, &se) || se.Code != sqlerr.CodeInvalidWindowConfig {
					t.Errorf("expected INVALID_WINDOW_CONFIG, got %v", err)
				}
			}
		})
	}

	if _, err := NewReader[byte](bytes.NewReader(nil), Config{}); err == nil {
		t.Error("expected NewReader to reject an invalid config")
	}
}

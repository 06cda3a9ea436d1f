package window

import (
	sqlerr "sqlsplit/pkg/error"
)

// Config sizes a Reader. All sizes are in source units (bytes or runes).
type Config struct {
	// WindowSize caps the number of units held in the buffer.
	WindowSize int

	// LookBehind is how many already-produced units stay addressable after a
	// refill.
	LookBehind int

	// ChunkSize is how many units each refill reads from the source.
	ChunkSize int
}

// DefaultConfig returns a 1 Mi window with 64 Ki of look-behind, refilled in
// 256 Ki chunks. The smallest look-ahead available to a scanner is
// WindowSize - LookBehind - ChunkSize units.
func DefaultConfig() Config {
	return Config{
		WindowSize: 1 << 20,
		LookBehind: 64 << 10,
		ChunkSize:  256 << 10,
	}
}

// Validate checks the sizes for consistency.
func (c Config) Validate() error {
	fail := func(format string, args ...any) error {
		err := sqlerr.New(sqlerr.ErrCategoryUser, sqlerr.CodeInvalidWindowConfig, "invalid window configuration").
			WithDetail(format, args...).
			WithHint("use window.DefaultConfig() or keep chunk <= window and lookbehind < window")
		err.Operation = "Validate"
		err.Component = "Window"
		return err
	}

	switch {
	case c.ChunkSize <= 0:
		return fail("chunk size must be positive, got %d", c.ChunkSize)
	case c.LookBehind < 0:
		return fail("look-behind must not be negative, got %d", c.LookBehind)
	case c.WindowSize < c.ChunkSize:
		return fail("window size %d is smaller than chunk size %d", c.WindowSize, c.ChunkSize)
	case c.LookBehind >= c.WindowSize:
		return fail("look-behind %d must be smaller than window size %d", c.LookBehind, c.WindowSize)
	}
	return nil
}

// refillable reports whether the cursor can ever reach the refill threshold
// before running off the end of a full window.
func (c Config) refillable() bool {
	return c.LookBehind+c.ChunkSize <= c.WindowSize
}

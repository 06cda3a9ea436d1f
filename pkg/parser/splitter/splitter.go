package splitter

import (
	"context"
	"io"
	"log/slog"

	"sqlsplit/pkg/iterator"
	"sqlsplit/pkg/logging"
	"sqlsplit/pkg/parser/statements"
	"sqlsplit/pkg/parser/token"
)

// TokenSource supplies tokens in order and returns io.EOF when done. The
// lexer and iterator.SliceIterator[token.Token] both satisfy it.
type TokenSource interface {
	Next() (token.Token, error)
}

// Splitter turns a token stream into statements. It is an
// iterator.Iterator[statements.Statement] and can be driven only once.
type Splitter struct {
	src   TokenSource
	state state

	pending *statements.Statement
	done    bool
	err     error
	emitted int

	log *slog.Logger
}

var _ iterator.Iterator[statements.Statement] = (*Splitter)(nil)

// New creates a Splitter reading from src.
func New(src TokenSource) *Splitter {
	return &Splitter{
		src: src,
		log: logging.WithComponent("splitter"),
	}
}

// Split collects every statement from src.
func Split(src TokenSource) ([]statements.Statement, error) {
	return iterator.Collect[statements.Statement](New(src))
}

// HasNext pulls tokens until a statement is complete or the input ends. An
// error from the token source is returned unchanged and ends the iteration.
func (s *Splitter) HasNext() (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for s.pending == nil && !s.done {
		t, err := s.src.Next()
		if err == io.EOF {
			s.finish()
			break
		}
		if err != nil {
			s.err = err
			return false, err
		}
		s.feed(t)
	}
	return s.pending != nil, nil
}

// Next returns the next statement, or io.EOF when there are none left.
func (s *Splitter) Next() (statements.Statement, error) {
	ok, err := s.HasNext()
	if err != nil {
		return statements.Statement{}, err
	}
	if !ok {
		return statements.Statement{}, io.EOF
	}
	stmt := *s.pending
	s.pending = nil
	return stmt, nil
}

// Emitted returns how many statements have been handed out or are ready.
func (s *Splitter) Emitted() int {
	return s.emitted
}

// feed runs one token through the state machine.
func (s *Splitter) feed(t token.Token) {
	st := &s.state

	if st.consumeWS && triggersEmission(t) {
		s.emit()
		st = &s.state
	}

	st.observeInsert(t)
	st.level += st.levelDelta(t)

	if st.insert != insertSkipping {
		st.tokens = append(st.tokens, t)
	}

	if st.endsStatement(t) {
		st.consumeWS = true
	}
}

// emit hands out the accumulated statement, unless it was an INSERT ... INTO,
// and starts over with a fresh state.
func (s *Splitter) emit() {
	if s.state.insert == insertSkipping {
		s.log.Debug("dropped INSERT INTO statement", "index", s.emitted)
	} else {
		s.ready(s.state.tokens)
	}
	s.state = state{}
}

// finish handles the end of input: whatever is left becomes a final
// statement unless it is only whitespace.
func (s *Splitter) finish() {
	s.done = true
	if s.state.insert == insertSkipping || len(s.state.tokens) == 0 {
		return
	}
	stmt := statements.New(s.state.tokens)
	s.state = state{}
	if stmt.IsWhitespace() {
		return
	}
	s.pending = &stmt
	s.emitted++
}

func (s *Splitter) ready(tokens []token.Token) {
	stmt := statements.New(tokens)
	s.pending = &stmt
	s.emitted++
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		logging.WithStatement(s.emitted, stmt.Position()).Debug("statement emitted",
			"tokens", stmt.Len(), "type", stmt.Type().String())
	}
}

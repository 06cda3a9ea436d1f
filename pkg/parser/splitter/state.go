package splitter

import (
	"strings"

	"sqlsplit/pkg/parser/token"
)

// insertState tracks whether the statement being accumulated is an
// INSERT ... INTO that must be dropped.
type insertState int

const (
	insertIdle     insertState = iota // no INSERT seen
	insertSeen                        // INSERT seen, waiting for INTO
	insertSkipping                    // INSERT INTO confirmed; drop everything
)

// state is everything the splitter knows about the statement in progress.
// A fresh zero value is used after every boundary.
type state struct {
	level      int
	inDeclare  bool
	inCase     bool
	isCreate   bool
	beginDepth int
	consumeWS  bool
	insert     insertState
	tokens     []token.Token
}

// observeInsert advances the INSERT ... INTO detector with one token.
// Spaces, newlines and comments never change the detector.
func (s *state) observeInsert(t token.Token) {
	if s.insert == insertSkipping {
		return
	}
	if t.Type.In(token.Whitespace) || t.Type.In(token.Comment) {
		return
	}

	switch s.insert {
	case insertIdle:
		if t.Is(token.KeywordDML, "INSERT") {
			s.insert = insertSeen
		}
	case insertSeen:
		if t.Is(token.Keyword, "INTO") {
			s.insert = insertSkipping
			s.tokens = s.tokens[:0]
		} else {
			s.insert = insertIdle
		}
	}
}

// levelDelta returns how t changes the nesting level, updating the block
// flags on the way. The cases are checked in order and the first match wins.
func (s *state) levelDelta(t token.Token) int {
	switch {
	case t.Is(token.Punctuation, "("):
		return 1
	case t.Is(token.Punctuation, ")"):
		return -1
	case !t.Type.In(token.Keyword):
		return 0
	}

	word := t.Normalized()

	switch {
	case t.Type == token.KeywordDDL && strings.HasPrefix(word, "CREATE"):
		s.isCreate = true
		return 0

	case word == "DECLARE" && s.isCreate && s.beginDepth == 0:
		s.inDeclare = true
		return 1

	case word == "BEGIN":
		s.beginDepth++
		if s.isCreate {
			return 1
		}
		return 0

	case word == "END":
		if s.inCase {
			s.inCase = false
		} else {
			s.beginDepth = max(0, s.beginDepth-1)
		}
		return -1

	case isBlockOpener(word) && s.isCreate && s.beginDepth > 0:
		if word == "CASE" {
			s.inCase = true
		}
		return 1

	case isBlockCloser(word):
		return -1
	}

	return 0
}

func isBlockOpener(word string) bool {
	return word == "IF" || word == "FOR" || word == "WHILE" || word == "CASE"
}

func isBlockCloser(word string) bool {
	return word == "END IF" || word == "END FOR" || word == "END WHILE"
}

// endsStatement reports whether t closes the statement: a semicolon at the
// top level, or a GO batch separator (optionally followed by a count).
func (s *state) endsStatement(t token.Token) bool {
	if s.level <= 0 && t.Is(token.Punctuation, ";") {
		return true
	}
	if t.Type != token.Keyword {
		return false
	}
	fields := strings.Fields(t.Value)
	return len(fields) > 0 && strings.EqualFold(fields[0], "GO")
}

// triggersEmission reports whether t, arriving after a boundary, hands out the
// finished statement. Spaces and single-line comments do not; a newline does.
func triggersEmission(t token.Token) bool {
	return t.Type != token.Whitespace && t.Type != token.CommentSingle
}

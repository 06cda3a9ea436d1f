package statements

import (
	"strings"

	"sqlsplit/pkg/parser/token"
)

type StatementType int

const (
	Unknown StatementType = iota
	Select
	Insert
	Update
	Delete
	Merge
	Create
	Drop
	Alter
	Truncate
	Batch
)

func (st StatementType) String() string {
	switch st {
	case Select:
		return "SELECT"
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Merge:
		return "MERGE"
	case Create:
		return "CREATE"
	case Drop:
		return "DROP"
	case Alter:
		return "ALTER"
	case Truncate:
		return "TRUNCATE"
	case Batch:
		return "GO"
	default:
		return "UNKNOWN"
	}
}

// IsDML returns true if the statement type is a DML operation (SELECT, INSERT, UPDATE, DELETE, MERGE)
func (st StatementType) IsDML() bool {
	return st == Select || st == Insert || st == Update || st == Delete || st == Merge
}

// IsDDL returns true if the statement type is a DDL operation (CREATE, DROP, ALTER, TRUNCATE)
func (st StatementType) IsDDL() bool {
	return st == Create || st == Drop || st == Alter || st == Truncate
}

var leadingKeywords = map[string]StatementType{
	"SELECT":   Select,
	"INSERT":   Insert,
	"UPDATE":   Update,
	"DELETE":   Delete,
	"MERGE":    Merge,
	"CREATE":   Create,
	"DROP":     Drop,
	"ALTER":    Alter,
	"TRUNCATE": Truncate,
	"GO":       Batch,
}

// Statement is one top-level SQL statement: the tokens the splitter grouped
// together, in source order. A Statement is never modified after it has been
// handed out.
type Statement struct {
	tokens []token.Token
}

// New wraps tokens into a Statement. The slice is owned by the Statement
// afterwards.
func New(tokens []token.Token) Statement {
	return Statement{tokens: tokens}
}

// Tokens returns a copy of the statement's tokens.
func (s Statement) Tokens() []token.Token {
	out := make([]token.Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Len returns the number of tokens in the statement.
func (s Statement) Len() int {
	return len(s.tokens)
}

// Token returns the i-th token.
func (s Statement) Token(i int) token.Token {
	return s.tokens[i]
}

// String concatenates the token values, reproducing the original text.
func (s Statement) String() string {
	var b strings.Builder
	for _, t := range s.tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}

// IsWhitespace reports whether every token is whitespace or a newline.
func (s Statement) IsWhitespace() bool {
	for _, t := range s.tokens {
		if !t.IsWhitespace() {
			return false
		}
	}
	return true
}

// Type classifies the statement by its first keyword. Leading whitespace,
// comments and opening parentheses are skipped.
func (s Statement) Type() StatementType {
	for _, t := range s.tokens {
		switch {
		case t.IsWhitespace(), t.Type.In(token.Comment), t.Is(token.Punctuation, "("):
			continue
		case t.Type.In(token.Keyword):
			fields := strings.Fields(t.Normalized())
			if len(fields) == 0 {
				return Unknown
			}
			return leadingKeywords[fields[0]]
		default:
			return Unknown
		}
	}
	return Unknown
}

// Position returns the absolute position of the first token, or -1 for an
// empty statement.
func (s Statement) Position() int64 {
	if len(s.tokens) == 0 {
		return -1
	}
	return s.tokens[0].Position
}

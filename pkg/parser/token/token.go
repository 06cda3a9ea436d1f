package token

import "strings"

// TokenType classifies a lexical unit. Types form a small hierarchy so that a
// consumer can ask whether a token belongs to a family (every KeywordDML is
// also a Keyword, every Newline is also Whitespace).
type TokenType int

const (
	Text TokenType = iota
	Whitespace
	Newline
	Comment
	CommentSingle
	CommentMultiline
	Keyword
	KeywordDDL
	KeywordDML
	Punctuation
	Name
	String
	Number
	Operator
	Error
)

// parents maps each type to the family it belongs to. Root types map to Text.
var parents = map[TokenType]TokenType{
	Newline:          Whitespace,
	CommentSingle:    Comment,
	CommentMultiline: Comment,
	KeywordDDL:       Keyword,
	KeywordDML:       Keyword,
}

// Parent returns the family this type belongs to, or Text for root types.
func (t TokenType) Parent() TokenType {
	if p, ok := parents[t]; ok {
		return p
	}
	return Text
}

// In reports whether t is family or a descendant of it.
func (t TokenType) In(family TokenType) bool {
	for cur := t; ; cur = cur.Parent() {
		if cur == family {
			return true
		}
		if cur == Text {
			return false
		}
	}
}

func (t TokenType) String() string {
	switch t {
	case Text:
		return "Text"
	case Whitespace:
		return "Whitespace"
	case Newline:
		return "Whitespace.Newline"
	case Comment:
		return "Comment"
	case CommentSingle:
		return "Comment.Single"
	case CommentMultiline:
		return "Comment.Multiline"
	case Keyword:
		return "Keyword"
	case KeywordDDL:
		return "Keyword.DDL"
	case KeywordDML:
		return "Keyword.DML"
	case Punctuation:
		return "Punctuation"
	case Name:
		return "Name"
	case String:
		return "String"
	case Number:
		return "Number"
	case Operator:
		return "Operator"
	case Error:
		return "Error"
	default:
		return "UNKNOWN"
	}
}

// Token is a classified piece of SQL text. Position is the absolute offset, in
// source units, of the first unit of Value.
type Token struct {
	Type     TokenType
	Value    string
	Position int64
}

// New creates a token without position information.
func New(t TokenType, value string) Token {
	return Token{Type: t, Value: value}
}

// Is reports whether the token has exactly type t and, ignoring case, the
// given value.
func (t Token) Is(tt TokenType, value string) bool {
	return t.Type == tt && strings.EqualFold(t.Value, value)
}

// IsWhitespace reports whether the token is a space, tab or newline run.
func (t Token) IsWhitespace() bool {
	return t.Type.In(Whitespace)
}

// Normalized returns the upper-cased value used for keyword comparisons.
func (t Token) Normalized() string {
	return strings.ToUpper(t.Value)
}

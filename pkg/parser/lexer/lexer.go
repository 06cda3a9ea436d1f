package lexer

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"unicode"

	sqlerr "sqlsplit/pkg/error"
	"sqlsplit/pkg/logging"
	"sqlsplit/pkg/parser/token"
	"sqlsplit/pkg/window"
)

const (
	punctuation   = ";:()[],."
	operatorChars = "=<>!+-*/%|&^~?"
	// lineStartScan bounds how far back GO detection looks for a newline.
	lineStartScan = 256
)

// Lexer turns the runes of a window.Reader into SQL tokens. Each token is
// matched against the reader's buffered look-ahead and then consumed, so the
// whole input never has to be in memory.
//
// A token longer than the available look-ahead is cut at the window edge; a
// warning is logged when that may have happened.
type Lexer struct {
	r     *window.Reader[rune]
	input []rune // look-ahead for the token being scanned
	pos   int    // end of the token within input
	err   error
	log   *slog.Logger
}

// New creates a Lexer reading from r.
func New(r *window.Reader[rune]) *Lexer {
	return &Lexer{
		r:   r,
		log: logging.WithComponent("lexer"),
	}
}

// FromReader builds a window over rd with cfg and returns a Lexer reading from it.
func FromReader(rd io.Reader, cfg window.Config) (*Lexer, error) {
	wr, err := window.NewReader[rune](window.Runes(bufio.NewReader(rd)), cfg)
	if err != nil {
		return nil, sqlerr.Wrap(err, sqlerr.CodeSourceReadFailed, "NewLexer", "Lexer")
	}
	return New(wr), nil
}

// Tokenize lexes a whole string.
func Tokenize(input string) ([]token.Token, error) {
	l, err := FromReader(strings.NewReader(input), window.DefaultConfig())
	if err != nil {
		return nil, err
	}
	var tokens []token.Token
	for {
		t, err := l.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, t)
	}
}

// Next scans the next token. It returns io.EOF at the end of the input. Read
// failures are wrapped with SOURCE_READ_FAILED and keep the original error in
// their chain; they are sticky.
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	ahead, err := l.r.Ahead()
	if err != nil {
		return token.Token{}, l.fail(err)
	}
	if len(ahead) == 0 {
		return token.Token{}, io.EOF
	}

	start := l.r.Pos()
	l.input, l.pos = ahead, 0
	tt := l.scan()
	n := l.pos
	value := string(ahead[:n])
	l.input = nil

	if n == len(ahead) && !l.r.AtEOF() {
		l.log.Warn("token reaches the end of the look-ahead window and may be split",
			"pos", start, "len", n, "type", tt.String())
	}

	if err := l.r.Consume(n); err != nil {
		return token.Token{}, l.fail(err)
	}
	return token.Token{Type: tt, Value: value, Position: start}, nil
}

func (l *Lexer) fail(err error) error {
	l.err = sqlerr.Wrap(err, sqlerr.CodeSourceReadFailed, "NextToken", "Lexer")
	return l.err
}

// peekAt returns the rune i positions into the look-ahead, or 0 past its end.
func (l *Lexer) peekAt(i int) rune {
	if i < len(l.input) {
		return l.input[i]
	}
	return 0
}

// scan classifies the token at the start of l.input and sets l.pos to its length.
func (l *Lexer) scan() token.TokenType {
	ch := l.input[0]

	switch {
	case ch == '\n' || ch == '\r':
		return l.readNewline()
	case isSpace(ch):
		return l.readWhitespace()
	case ch == '-' && l.peekAt(1) == '-':
		return l.readLineComment()
	case ch == '#' && (isSpace(l.peekAt(1)) || isLineEnd(l.peekAt(1))):
		return l.readLineComment()
	case ch == '/' && l.peekAt(1) == '*':
		return l.readBlockComment()
	case ch == '\'':
		l.readQuoted(ch)
		return token.String
	case ch == '"' || ch == '`':
		l.readQuoted(ch)
		return token.Name
	case ch == '[' && l.readBracketName():
		return token.Name
	case unicode.IsDigit(ch) || (ch == '.' && unicode.IsDigit(l.peekAt(1))):
		return l.readNumber()
	case isIdentStart(ch):
		return l.readWord()
	case strings.ContainsRune(punctuation, ch):
		l.pos = 1
		return token.Punctuation
	case strings.ContainsRune(operatorChars, ch):
		return l.readOperator()
	default:
		l.pos = 1
		return token.Error
	}
}

func (l *Lexer) readNewline() token.TokenType {
	l.pos = 1
	if l.input[0] == '\r' && l.peekAt(1) == '\n' {
		l.pos = 2
	}
	return token.Newline
}

func (l *Lexer) readWhitespace() token.TokenType {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.pos++
	}
	return token.Whitespace
}

// readLineComment reads to the end of the line, newline included.
func (l *Lexer) readLineComment() token.TokenType {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		l.pos++
		if ch == '\n' {
			break
		}
		if ch == '\r' {
			if l.peekAt(l.pos) == '\n' {
				l.pos++
			}
			break
		}
	}
	return token.CommentSingle
}

func (l *Lexer) readBlockComment() token.TokenType {
	l.pos = 2
	for l.pos < len(l.input) {
		if l.input[l.pos] == '*' && l.peekAt(l.pos+1) == '/' {
			l.pos += 2
			return token.CommentMultiline
		}
		l.pos++
	}
	return token.CommentMultiline
}

// readQuoted reads a literal delimited by quote. A doubled quote is an
// escaped quote; single-quoted strings also accept backslash escapes.
func (l *Lexer) readQuoted(quote rune) {
	l.pos = 1
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case quote == '\'' && ch == '\\':
			l.pos += 2
		case ch == quote && l.peekAt(l.pos+1) == quote:
			l.pos += 2
		case ch == quote:
			l.pos++
			return
		default:
			l.pos++
		}
	}
	l.pos = len(l.input)
}

// readBracketName reads a [bracketed] identifier on a single line.
func (l *Lexer) readBracketName() bool {
	for i := 1; i < len(l.input); i++ {
		switch l.input[i] {
		case ']':
			if i == 1 {
				return false
			}
			l.pos = i + 1
			return true
		case '[', '\n', '\r':
			return false
		}
	}
	return false
}

func (l *Lexer) readNumber() token.TokenType {
	digits := func() int {
		start := l.pos
		for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
			l.pos++
		}
		return l.pos - start
	}

	digits()
	if l.peekAt(l.pos) == '.' {
		l.pos++
		digits()
	}
	if e := l.peekAt(l.pos); e == 'e' || e == 'E' {
		mark := l.pos
		l.pos++
		if s := l.peekAt(l.pos); s == '+' || s == '-' {
			l.pos++
		}
		if digits() == 0 {
			l.pos = mark
		}
	}
	return token.Number
}

func (l *Lexer) readOperator() token.TokenType {
	l.pos = 1
	if strings.ContainsRune("=<>!", l.input[0]) {
		for l.pos < len(l.input) && strings.ContainsRune("=<>!", l.input[l.pos]) {
			l.pos++
		}
	} else if l.input[0] == '|' && l.peekAt(1) == '|' {
		l.pos = 2
	}
	return token.Operator
}

// readWord reads an identifier or keyword, folding compound keywords such as
// END IF or CREATE OR REPLACE into a single token.
func (l *Lexer) readWord() token.TokenType {
	l.pos = 1
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}

	// a.end is a column, not a keyword
	if behind := l.r.Behind(1); len(behind) == 1 && behind[0] == '.' {
		return token.Name
	}

	upper := strings.ToUpper(string(l.input[:l.pos]))
	if upper == "GO" {
		if !l.atLineStart() {
			return token.Name
		}
		l.readBatchCount()
		return token.Keyword
	}

	tt, ok := keywords[upper]
	if !ok {
		return token.Name
	}
	for _, words := range compounds[upper] {
		if end, ok := l.matchWords(l.pos, words); ok {
			l.pos = end
			break
		}
	}
	return tt
}

// matchWords reports where the given words end if they follow position i,
// each preceded by whitespace and ending at a word boundary.
func (l *Lexer) matchWords(i int, words []string) (int, bool) {
	for _, w := range words {
		start := i
		for i < len(l.input) && (isSpace(l.input[i]) || isLineEnd(l.input[i])) {
			i++
		}
		if i == start {
			return 0, false
		}
		end := i + len(w)
		if end > len(l.input) || !strings.EqualFold(string(l.input[i:end]), w) {
			return 0, false
		}
		if end < len(l.input) && isIdentChar(l.input[end]) {
			return 0, false
		}
		i = end
	}
	return i, true
}

// atLineStart reports whether only spaces separate the current token from the
// previous newline or the start of the input. It relies on the reader's
// look-behind.
func (l *Lexer) atLineStart() bool {
	behind := l.r.Behind(lineStartScan)
	for i := len(behind) - 1; i >= 0; i-- {
		switch ch := behind[i]; {
		case isLineEnd(ch):
			return true
		case !isSpace(ch):
			return false
		}
	}
	return l.r.Pos() == int64(len(behind))
}

// readBatchCount extends a GO token with a repeat count on the same line.
func (l *Lexer) readBatchCount() {
	i := l.pos
	for i < len(l.input) && isSpace(l.input[i]) {
		i++
	}
	if i == l.pos {
		return
	}
	j := i
	for j < len(l.input) && unicode.IsDigit(l.input[j]) {
		j++
	}
	if j > i && (j == len(l.input) || !isIdentChar(l.input[j])) {
		l.pos = j
	}
}

func isLineEnd(ch rune) bool {
	return ch == '\n' || ch == '\r'
}

func isSpace(ch rune) bool {
	return !isLineEnd(ch) && unicode.IsSpace(ch)
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '@' || ch == '#'
}

func isIdentChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '$' || ch == '@' || ch == '#'
}

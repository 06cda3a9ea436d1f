package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sqlsplit/pkg/parser/lexer"
	"sqlsplit/pkg/parser/token"
)

var functions = []string{
	"COUNT", "SUM", "AVG", "MIN", "MAX", "LENGTH", "SUBSTR", "UPPER",
	"LOWER", "TRIM", "CONCAT", "ROUND", "ABS", "NOW", "CURRENT_DATE",
	"CURRENT_TIME", "COALESCE", "CAST", "CONVERT",
}

// SQLHighlighter renders SQL with one style per token family. It uses the
// same lexer as the splitter, so what is highlighted as a keyword is what the
// splitter sees as one.
type SQLHighlighter struct {
	functions     map[string]bool
	keywordStyle  lipgloss.Style
	dmlStyle      lipgloss.Style
	functionStyle lipgloss.Style
	stringStyle   lipgloss.Style
	numberStyle   lipgloss.Style
	operatorStyle lipgloss.Style
	commentStyle  lipgloss.Style
	errorStyle    lipgloss.Style
}

func NewSQLHighlighter() *SQLHighlighter {
	h := &SQLHighlighter{
		functions: make(map[string]bool, len(functions)),
	}
	for _, fn := range functions {
		h.functions[fn] = true
	}

	h.keywordStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF79C6")).
		Bold(true)

	h.dmlStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#50FA7B")).
		Bold(true)

	h.functionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8BE9FD")).
		Bold(true)

	h.stringStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F1FA8C"))

	h.numberStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#BD93F9"))

	h.operatorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFB86C"))

	h.commentStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6272A4")).
		Italic(true)

	h.errorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Underline(true)

	return h
}

// Highlight renders sql token by token. Whitespace and newlines are kept as
// they are; if the input cannot be lexed it is returned unstyled.
func (h *SQLHighlighter) Highlight(sql string) string {
	tokens, err := lexer.Tokenize(sql)
	if err != nil {
		return sql
	}
	return h.Tokens(tokens)
}

// Tokens renders already lexed tokens.
func (h *SQLHighlighter) Tokens(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(h.render(t))
	}
	return b.String()
}

func (h *SQLHighlighter) render(t token.Token) string {
	switch {
	case t.Type.In(token.Whitespace):
		return t.Value
	case t.Type.In(token.Comment):
		return h.renderLines(h.commentStyle, t.Value)
	case t.Type == token.KeywordDML || t.Type == token.KeywordDDL:
		return h.dmlStyle.Render(t.Value)
	case t.Type == token.Keyword:
		return h.keywordStyle.Render(t.Value)
	case t.Type == token.Name && h.functions[t.Normalized()]:
		return h.functionStyle.Render(t.Value)
	case t.Type == token.String:
		return h.renderLines(h.stringStyle, t.Value)
	case t.Type == token.Number:
		return h.numberStyle.Render(t.Value)
	case t.Type == token.Operator:
		return h.operatorStyle.Render(t.Value)
	case t.Type == token.Error:
		return h.errorStyle.Render(t.Value)
	default:
		return t.Value
	}
}

// renderLines styles each line separately so that line breaks inside a
// comment or string survive rendering.
func (h *SQLHighlighter) renderLines(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

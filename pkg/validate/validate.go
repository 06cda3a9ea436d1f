package validate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xwb1989/sqlparser"

	sqlerr "sqlsplit/pkg/error"
	"sqlsplit/pkg/logging"
	"sqlsplit/pkg/parser/statements"
	"sqlsplit/pkg/parser/token"
)

// Status is the outcome of validating one statement.
type Status int

const (
	Valid Status = iota
	Invalid
	// Skipped statements are outside what the grammar covers: batch
	// separators, procedural bodies and comment-only statements.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result describes one validated statement.
type Result struct {
	Index    int
	Position int64
	Status   Status
	Reason   string

	// Normalized is the parser's canonical rendering of a valid statement.
	Normalized string

	// Err is a STATEMENT_INVALID error for invalid statements.
	Err error
}

// Validator checks statements against the MySQL grammar of
// github.com/xwb1989/sqlparser.
type Validator struct {
	log *slog.Logger
}

func New() *Validator {
	return &Validator{log: logging.WithComponent("validate")}
}

// Statement validates stmt, the index-th statement of its input.
func (v *Validator) Statement(index int, stmt statements.Statement) Result {
	res := Result{Index: index, Position: stmt.Position()}

	sql, reason := v.prepare(stmt)
	if reason != "" {
		res.Status = Skipped
		res.Reason = reason
		v.log.Debug("statement skipped", "statement", index, "reason", reason)
		return res
	}

	ast, err := sqlparser.Parse(sql)
	if err != nil {
		e := sqlerr.Wrap(err, sqlerr.CodeStatementInvalid, "Validate", "Validator").
			WithDetail("statement %d at position %d", index, stmt.Position())
		e.Category = sqlerr.ErrCategoryUser
		e.Message = "statement does not parse"
		res.Status = Invalid
		res.Reason = err.Error()
		res.Err = e
		if v.log.Enabled(context.Background(), slog.LevelDebug) {
			logging.WithStatement(index, stmt.Position()).Debug("statement invalid", "error", err)
		}
		return res
	}

	res.Status = Valid
	res.Normalized = sqlparser.String(ast)
	return res
}

// All validates stmts in order.
func (v *Validator) All(stmts []statements.Statement) []Result {
	results := make([]Result, len(stmts))
	for i, stmt := range stmts {
		results[i] = v.Statement(i, stmt)
	}
	return results
}

// Counts tallies results by status.
func Counts(results []Result) map[Status]int {
	counts := make(map[Status]int, 3)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

func isBatchSeparator(t token.Token) bool {
	if t.Type != token.Keyword {
		return false
	}
	fields := strings.Fields(t.Normalized())
	return len(fields) > 0 && fields[0] == "GO"
}

// prepare renders stmt for the parser with comments and a trailing GO blanked
// out, or returns why it is skipped.
func (v *Validator) prepare(stmt statements.Statement) (string, string) {
	if stmt.Type() == statements.Batch {
		return "", "batch separator"
	}

	var b strings.Builder
	procedural := false
	for _, t := range stmt.Tokens() {
		switch {
		case t.Type.In(token.Comment), isBatchSeparator(t):
			b.WriteByte(' ')
			continue
		case t.Type == token.Keyword:
			switch t.Normalized() {
			case "BEGIN", "DECLARE", "END":
				procedural = true
			}
		}
		b.WriteString(t.Value)
	}

	sql := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(b.String()), ";"))
	switch {
	case sql == "":
		return "", "no statement text"
	case procedural && stmt.Type() == statements.Create:
		return "", "procedural body"
	}
	return sql, ""
}

package validate

import (
	"errors"
	"strings"
	"testing"

	sqlerr "sqlsplit/pkg/error"
	"sqlsplit/pkg/iterator"
	"sqlsplit/pkg/parser/lexer"
	"sqlsplit/pkg/parser/splitter"
	"sqlsplit/pkg/parser/statements"
)

func splitSQL(t *testing.T, sql string) []statements.Statement {
	t.Helper()
	tokens, err := lexer.Tokenize(sql)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	stmts, err := splitter.Split(iterator.NewSliceIterator(tokens))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	return stmts
}

func TestValidator_All(t *testing.T) {
	sql := "SELECT a FROM t WHERE b = 1;\n" +
		"SELEC oops;\n" +
		"GO\n" +
		"CREATE PROCEDURE p() BEGIN SELECT 1; END;\n" +
		"DELETE FROM t WHERE id = 2;\n" +
		"-- tail\n"

	results := New().All(splitSQL(t, sql))

	expected := []Status{Valid, Invalid, Skipped, Skipped, Valid, Skipped}
	if len(results) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(results))
	}
	for i, status := range expected {
		if results[i].Status != status {
			t.Errorf("statement %d: expected %s, got %s (%s)", i, status, results[i].Status, results[i].Reason)
		}
		if results[i].Index != i {
			t.Errorf("statement %d: expected index %d, got %d", i, i, results[i].Index)
		}
	}

	if !strings.HasPrefix(results[0].Normalized, "select") {
		t.Errorf("expected normalized select, got %q", results[0].Normalized)
	}
	if results[2].Reason != "batch separator" {
		t.Errorf("expected batch separator, got %q", results[2].Reason)
	}
	if results[3].Reason != "procedural body" {
		t.Errorf("expected procedural body, got %q", results[3].Reason)
	}

	counts := Counts(results)
	if counts[Valid] != 2 || counts[Invalid] != 1 || counts[Skipped] != 3 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestValidator_InvalidCarriesCode(t *testing.T) {
	stmts := splitSQL(t, "SELECT 1;\nUPDATE SET;")
	res := New().Statement(1, stmts[1])

	if res.Status != Invalid {
		t.Fatalf("expected invalid, got %s", res.Status)
	}
	var se *sqlerr.Error
	if !errors.As(res.Err, &se) {
		t.Fatalf("expected *sqlerr.Error, got %T", res.Err)
	}
	if se.Code != sqlerr.CodeStatementInvalid {
		t.Errorf("expected code %s, got %s", sqlerr.CodeStatementInvalid, se.Code)
	}
	if se.Category != sqlerr.ErrCategoryUser {
		t.Errorf("expected user category, got %s", se.Category)
	}
	if res.Position != stmts[1].Position() {
		t.Errorf("expected position %d, got %d", stmts[1].Position(), res.Position)
	}
}

func TestValidator_CommentsAreIgnored(t *testing.T) {
	stmts := splitSQL(t, "/* lead */ SELECT a -- note\nFROM t;")
	res := New().Statement(0, stmts[0])
	if res.Status != Valid {
		t.Errorf("expected valid, got %s: %s", res.Status, res.Reason)
	}
}

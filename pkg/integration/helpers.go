package integration

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"sqlsplit/pkg/parser/lexer"
	"sqlsplit/pkg/parser/splitter"
	"sqlsplit/pkg/parser/statements"
	"sqlsplit/pkg/validate"
	"sqlsplit/pkg/window"
)

// TinyWindow forces many refills on any realistic script.
var TinyWindow = window.Config{WindowSize: 256, LookBehind: 32, ChunkSize: 128}

// TestScript is a SQL script written to a temporary directory.
type TestScript struct {
	Path    string
	Content string
	cleanup func()
}

// SetupTestScript writes content to a temporary file with cleanup
func SetupTestScript(t *testing.T, name, content string) *TestScript {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "integration_test_*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	path := filepath.Join(tempDir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		_ = os.RemoveAll(tempDir)
		t.Fatalf("failed to write script: %v", err)
	}

	return &TestScript{
		Path:    path,
		Content: content,
		cleanup: func() {
			if err := os.RemoveAll(tempDir); err != nil {
				t.Logf("warning: failed to remove temp dir: %v", err)
			}
		},
	}
}

// Cleanup removes the script file
func (ts *TestScript) Cleanup() {
	if ts.cleanup != nil {
		ts.cleanup()
	}
}

// SplitFile streams a file through the reader, lexer and splitter.
func SplitFile(t *testing.T, path string, cfg window.Config) []statements.Statement {
	t.Helper()

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		t.Fatalf("failed to open SQL file %s: %v", path, err)
	}
	defer f.Close()

	l, err := lexer.FromReader(f, cfg)
	if err != nil {
		t.Fatalf("failed to create lexer: %v", err)
	}

	s := splitter.New(l)
	var stmts []statements.Statement
	for {
		stmt, err := s.Next()
		if errors.Is(err, io.EOF) {
			return stmts
		}
		if err != nil {
			t.Fatalf("failed to split %s after %d statements: %v", path, len(stmts), err)
		}
		stmts = append(stmts, stmt)
	}
}

// ReadFile returns a testdata file's content.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		t.Fatalf("failed to read SQL file %s: %v", path, err)
	}
	return string(content)
}

// VerifyTypes checks the number of statements and their types
func VerifyTypes(t *testing.T, stmts []statements.Statement, expected ...statements.StatementType) {
	t.Helper()
	if len(stmts) != len(expected) {
		t.Fatalf("expected %d statements, got %d", len(expected), len(stmts))
	}
	for i, typ := range expected {
		if stmts[i].Type() != typ {
			t.Errorf("statement %d: expected %s, got %s", i, typ, stmts[i].Type())
		}
	}
}

// VerifyPositions checks that every statement's text is found in content at
// the statement's position, counted in runes.
func VerifyPositions(t *testing.T, content string, stmts []statements.Statement) {
	t.Helper()
	runes := []rune(content)
	for i, stmt := range stmts {
		text := []rune(stmt.String())
		start := stmt.Position()
		end := start + int64(len(text))
		if start < 0 || end > int64(len(runes)) {
			t.Fatalf("statement %d: span [%d, %d) outside the input", i, start, end)
		}
		if got := string(runes[start:end]); got != string(text) {
			t.Errorf("statement %d: expected %q at %d, found %q", i, string(text), start, got)
		}
	}
}

// VerifySame checks that two splits of the same input agree token for token.
func VerifySame(t *testing.T, want, got []statements.Statement) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].String() != want[i].String() || got[i].Position() != want[i].Position() {
			t.Errorf("statement %d: expected %q at %d, got %q at %d",
				i, want[i].String(), want[i].Position(), got[i].String(), got[i].Position())
		}
	}
}

// Validate runs the validator and fails the test on unexpected statuses.
func Validate(t *testing.T, stmts []statements.Statement, expected ...validate.Status) []validate.Result {
	t.Helper()
	results := validate.New().All(stmts)
	if len(results) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(results))
	}
	for i, status := range expected {
		if results[i].Status != status {
			t.Errorf("statement %d: expected %s, got %s (%s)", i, status, results[i].Status, results[i].Reason)
		}
	}
	return results
}

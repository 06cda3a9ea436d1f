package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	sqlerr "sqlsplit/pkg/error"
	"sqlsplit/pkg/window"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func testConfig(t *testing.T, args ...string) Configuration {
	t.Helper()
	config, err := parseArguments(args)
	if err != nil {
		t.Fatalf("parseArguments(%v) failed: %v", args, err)
	}
	return config
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestParseArguments(t *testing.T) {
	config := testConfig(t)
	if config.Window != window.DefaultConfig() {
		t.Errorf("expected default window %+v, got %+v", window.DefaultConfig(), config.Window)
	}
	if config.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", config.Workers)
	}

	config = testConfig(t, "-window", "64", "-lookbehind", "8", "-chunk", "16", "-quiet", "a.sql", "b.sql")
	if config.Window.WindowSize != 64 || config.Window.LookBehind != 8 || config.Window.ChunkSize != 16 {
		t.Errorf("unexpected window %+v", config.Window)
	}
	if !config.Quiet || len(config.Files) != 2 {
		t.Errorf("unexpected configuration %+v", config)
	}

	tests := [][]string{
		{"-window", "8", "-chunk", "16"},
		{"-workers", "0"},
		{"-log-format", "xml"},
	}
	for _, args := range tests {
		if _, err := parseArguments(args); err == nil {
			t.Errorf("expected %v to be rejected", args)
		}
	}
}

func TestRunQuietKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	var want strings.Builder
	for i, name := range []string{"a.sql", "b.sql", "c.sql", "d.sql"} {
		body := strings.Repeat("SELECT "+strings.Repeat("x", i+1)+";\n", 50)
		files = append(files, writeFile(t, dir, name, body))
		want.WriteString(body)
	}

	config := testConfig(t, append([]string{"-quiet", "-workers", "3", "-window", "128", "-lookbehind", "16", "-chunk", "64"}, files...)...)

	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), config, strings.NewReader(""), &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stdout.String() != want.String() {
		t.Errorf("expected statements in file order, got %q", stdout.String())
	}
}

func TestRunStdinWithHeaders(t *testing.T) {
	config := testConfig(t)

	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader("CREATE TABLE t (id INT);\nINSERT INTO t VALUES (1);\nSELECT * FROM t;\n")
	if err := run(context.Background(), config, stdin, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got := ansi.ReplaceAllString(stdout.String(), "")
	want := "-- [1] CREATE @0\nCREATE TABLE t (id INT);\n-- [2] SELECT @50\nSELECT * FROM t;\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRunMissingFile(t *testing.T) {
	config := testConfig(t, filepath.Join(t.TempDir(), "missing.sql"))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), config, strings.NewReader(""), &stdout, &stderr)

	var se *sqlerr.Error
	if !errors.As(err, &se) || se.Code != sqlerr.CodeFileOpenFailed {
		t.Fatalf("expected FILE_OPEN_FAILED, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the os error in the chain, got %v", err)
	}
}

func TestRunValidation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.sql", "SELECT 1;\nSELEC 2;\n")
	config := testConfig(t, "-validate", "-quiet", path)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), config, strings.NewReader(""), &stdout, &stderr)

	var se *sqlerr.Error
	if !errors.As(err, &se) || se.Code != sqlerr.CodeStatementInvalid {
		t.Fatalf("expected STATEMENT_INVALID, got %v", err)
	}
	if !strings.Contains(stderr.String(), "statement 2 at 9") {
		t.Errorf("expected the invalid statement to be reported, got %q", stderr.String())
	}
	if stdout.String() != "SELECT 1;\nSELEC 2;\n" {
		t.Errorf("expected both statements on stdout, got %q", stdout.String())
	}
}

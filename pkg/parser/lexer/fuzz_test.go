package lexer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func FuzzLexer(f *testing.F) {
	// Seed corpus: valid SQL fragments and edge cases that exercise
	// different code paths in the tokenizer.
	seeds := []string{
		"SELECT * FROM users",
		"INSERT INTO t (a, b) VALUES (1, 'hello')",
		"CREATE OR REPLACE PROCEDURE p() BEGIN SELECT 1; END;",
		"IF x THEN SELECT 1; END IF;",
		"SELECT 1\nGO 2\n",
		"-- comment\r\nSELECT 1",
		"# hash comment\n",
		"/* block */ SELECT [weird name] FROM `t`",
		// Edge cases
		"",
		"   ",
		"'unclosed string",
		"123abc",
		"--",
		"/*",
		"SELECT 1.5e10, .5, 1e",
		"SELECT 'it''s fine', 'back\\'slash'",
		"(((())))",
		"\x00\x01\x02",
		"ünïcødé",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize failed: %v", err)
		}

		var b strings.Builder
		for _, tok := range tokens {
			if tok.Value == "" {
				t.Fatalf("empty token at %d", tok.Position)
			}
			b.WriteString(tok.Value)
		}
		// invalid UTF-8 comes back as utf8.RuneError
		if utf8.ValidString(input) && b.String() != input {
			t.Fatalf("round trip mismatch: %q vs %q", input, b.String())
		}
	})
}

package base

import "testing"

func TestPreview(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"SELECT 1;", 20, "SELECT 1;"},
		{"\n  SELECT a,\n\tb FROM t;", 40, "SELECT a, b FROM t;"},
		{"SELECT something_long FROM t;", 12, "SELECT so..."},
		{"héllo wörld", 8, "héllo..."},
		{"abc", 2, "ab"},
	}

	for _, test := range tests {
		got := Preview(test.input, test.width)
		if got != test.expected {
			t.Errorf("Preview(%q, %d): expected %q, got %q", test.input, test.width, test.expected, got)
		}
	}
}

func TestStatusColor(t *testing.T) {
	p := DarkPalette
	if p.StatusColor("valid") != p.Success {
		t.Errorf("expected success color for valid")
	}
	if p.StatusColor("invalid") != p.Error {
		t.Errorf("expected error color for invalid")
	}
	if p.StatusColor("") != p.Muted {
		t.Errorf("expected muted color for no status")
	}
}

package kindle

import (
	"strings"
	"testing"
)

func TestTokenize_SplitsOnSeparators(t *testing.T) {
	input := "\uFEFFBook A (Author)\r\n- Your Highlight on page 1\r\n\r\nfirst\r\n==========\r\nBook B (Author)\r\n- Your Note on page 2\r\n\r\nsecond\r\n==========\r\n"

	blocks := Tokenize(input)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if strings.HasPrefix(blocks[0].Lines[0], "\uFEFF") {
		t.Errorf("byte order mark was not stripped")
	}
	for _, b := range blocks {
		if strings.Contains(b.RawText, "\r") {
			t.Errorf("block %d still contains carriage returns", b.Index)
		}
	}
	if blocks[1].Lines[0] != "Book B (Author)" {
		t.Errorf("unexpected first line of second block: %q", blocks[1].Lines[0])
	}
}

func TestTokenize_KeepsSplitIndex(t *testing.T) {
	input := "A (B)\n- Your Note\nx\n==========\n==========\nonly one line\n==========\nC (D)\n- Your Note\ny\n=========="

	blocks := Tokenize(input)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Index != 0 || blocks[1].Index != 3 {
		t.Errorf("expected indices 0 and 3, got %d and %d", blocks[0].Index, blocks[1].Index)
	}
}

func TestTokenize_SeparatorVariants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"indented separator", "A (B)\n- x\n  ==========  \nC (D)\n- y", 2},
		{"long separator", "A (B)\n- x\n====================\nC (D)\n- y", 2},
		{"short run is content", "A (B)\n- x\n=====\nC (D)\n- y", 1},
		{"separator inside a line is content", "A (B)\n- x ========== y\nmore", 1},
		{"empty input", "", 0},
		{"only separators", "==========\n==========\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Tokenize(tt.input)); got != tt.expected {
				t.Errorf("expected %d blocks, got %d", tt.expected, got)
			}
		})
	}
}

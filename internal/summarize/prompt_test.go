package summarize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short passes through", "hello", 10, "hello"},
		{"exact length passes through", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello…"},
		{"zero max passes through", "hello", 0, "hello"},
		{"multibyte cut stays on rune boundary", "ééééé", 3, "ééé…"},
		{"multibyte under rune limit passes through", "éé", 3, "éé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.maxLen)
			}
		})
	}
}

func TestTruncateNeverCorruptsUTF8(t *testing.T) {
	s := strings.Repeat("héritage ", 20)
	for maxLen := 1; maxLen < len(s); maxLen++ {
		if got := truncate(s, maxLen); !utf8.ValidString(got) {
			t.Fatalf("truncate at %d produced invalid UTF-8: %q", maxLen, got)
		}
	}
}

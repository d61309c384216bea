package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"title", "Launch Day", "launch-day"},
		{"accents", "Café Crème Brûlée", "cafe-creme-brulee"},
		{"punctuation", "Show HN: Rust?!  (beta)", "show-hn-rust-beta"},
		{"host", "news.ycombinator.com", "news-ycombinator-com"},
		{"only symbols", "!!!", ""},
		{"underscores and slashes", "a_b/c", "a-b-c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateTruncates(t *testing.T) {
	got := Generate(strings.Repeat("word ", 40))
	if len(got) > MaxLength {
		t.Fatalf("len = %d, want <= %d", len(got), MaxLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug %q ends with a hyphen", got)
	}
}

func TestGenerateWithFallback(t *testing.T) {
	if got := GenerateWithFallback("", "???", "example.com"); got != "example-com" {
		t.Errorf("GenerateWithFallback() = %q, want example-com", got)
	}
	if got := GenerateWithFallback(); got != "" {
		t.Errorf("GenerateWithFallback() = %q, want empty", got)
	}
}

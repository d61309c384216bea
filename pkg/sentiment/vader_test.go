package sentiment

import (
	"strings"
	"testing"
)

func TestRemoveLinks(t *testing.T) {
	got := RemoveLinks("see [the docs](https://example.com/docs) or https://foo.bar/x and www.baz.com")
	if strings.Contains(got, "http") || strings.Contains(got, "www.") {
		t.Errorf("links left in %q", got)
	}
	if !strings.Contains(got, "the docs") {
		t.Errorf("link text dropped: %q", got)
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("# Title\n\nSome **bold** text.")
	if strings.ContainsAny(got, "<>#*") {
		t.Errorf("PlainText() = %q, markup left over", got)
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"positive", "I love this product, it is wonderful and amazing!", "positive"},
		{"negative", "This is terrible, awful and I hate it.", "negative"},
		{"neutral", "The meeting is scheduled for Tuesday at the office.", "neutral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.Sentiment != tt.want {
				t.Errorf("Analyze() sentiment = %q (score %.2f), want %q", got.Sentiment, got.Score, tt.want)
			}
			if got.Score < -1 || got.Score > 1 {
				t.Errorf("score %.2f out of range", got.Score)
			}
			if got.Explanation == "" {
				t.Error("explanation is empty")
			}
		})
	}
}

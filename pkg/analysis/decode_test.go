package analysis

import (
	"strings"
	"testing"

	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`, false},
		{"fenced", "```json\n[1, 2]\n```", `[1, 2]`, false},
		{"prose around", "Here you go:\n{\"a\": [1]} hope it helps", `{"a": [1]}`, false},
		{"no json", "nothing here", "", true},
		{"truncated", `{"a": `, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("extractJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeList(t *testing.T) {
	var links []dm.Link
	if err := decodeList([]byte(`{"links": [{"url": "https://a.io", "context": "c"}]}`), &links); err != nil {
		t.Fatalf("decodeList() error = %v", err)
	}
	if len(links) != 1 || links[0].URL != "https://a.io" {
		t.Errorf("links = %v", links)
	}
	if err := decodeList([]byte(`{"note": "none"}`), &links); err == nil {
		t.Error("decodeList() accepted an object without an array")
	}
}

func TestLoadPrompts(t *testing.T) {
	p, err := loadPrompts(promptsYAML)
	if err != nil {
		t.Fatalf("loadPrompts() error = %v", err)
	}
	if p.system == "" {
		t.Error("system prompt is empty")
	}
	got, err := p.render(dm.KindLinks, dm.LinksRequest{PageContent: "<p>hi</p>", SourceURL: "https://example.com/t"})
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if !strings.Contains(got, "https://example.com/t") || !strings.Contains(got, "<p>hi</p>") {
		t.Errorf("render() = %q", got)
	}
	if _, err := loadPrompts([]byte("prompts:\n  summary: hi\n")); err == nil {
		t.Error("loadPrompts() accepted an incomplete catalogue")
	}
}

func TestHeaderImageSeed(t *testing.T) {
	words := dm.WordCloud{{Text: "a", Value: 90}, {Text: "b", Value: 80}, {Text: "c", Value: 70}, {Text: "d", Value: 60}, {Text: "e", Value: 50}, {Text: "f", Value: 40}, {Text: "g", Value: 30}, {Text: "h", Value: 20}, {Text: "i", Value: 10}}
	long := strings.Repeat("é", 600)

	tests := []struct {
		name    string
		words   dm.WordCloud
		title   string
		content string
		want    string
	}{
		{"top terms", words, "Launch Day", "body", "the key themes a, b, c, d, e, f, g, h"},
		{"title", nil, " Launch Day ", "body", "a discussion titled Launch Day"},
		{"snippet", nil, "", long, "the following discussion excerpt: " + strings.Repeat("é", 500)},
		{"generic", nil, "", "  ", genericTheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeaderImageSeed(tt.words, tt.title, tt.content); got != tt.want {
				t.Errorf("HeaderImageSeed() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate() = %q", got)
	}
}

package export

import (
	"strings"
	"testing"
	"time"

	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

var submitted = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func newSession(results map[dm.Kind]dm.Result) *dm.Session {
	s := &dm.Session{
		ID:          "s1",
		Source:      &dm.Source{Mode: dm.SourceURL, Input: "https://example.com/thread", ResolvedURL: "https://www.example.com/t/1"},
		SubmittedAt: submitted,
		Analyses:    map[dm.Kind]dm.AnalysisState{},
	}
	for k, r := range results {
		s.Analyses[k] = dm.AnalysisState{Status: dm.StatusSucceeded, Result: r}
	}
	return s
}

func TestMarkdown_RoundTrip(t *testing.T) {
	s := newSession(map[dm.Kind]dm.Result{
		dm.KindSummary:   &dm.Summary{Summary: "S"},
		dm.KindSentiment: &dm.Sentiment{Sentiment: "positive", Score: 0.8, Explanation: "good"},
		dm.KindWordCloud: dm.WordCloud{{Text: "a", Value: 90}},
		dm.KindLinks:     dm.Links{},
	})
	s.Analyses[dm.KindActionItems] = dm.AnalysisState{Status: dm.StatusFailed, Error: "analysis unavailable"}

	md := Markdown(s)
	for _, want := range []string{
		"# Crowd Voice Analysis",
		"**Analyzed Source:** https://www.example.com/t/1",
		"**Analysis Timestamp:** 2024-05-01T08:30:00Z",
		"S",
		"Overall Sentiment:** positive",
		"Score:** 0.80",
		"a (value: 90)",
		Disclaimer,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q\n%s", want, md)
		}
	}
	for _, absent := range []string{"## Contextualized Links", "## Action Items", "## Key Quotes", "**Title:**"} {
		if strings.Contains(md, absent) {
			t.Errorf("Markdown() should omit %q\n%s", absent, md)
		}
	}
	if !strings.HasSuffix(md, "*"+Disclaimer+"*\n") {
		t.Errorf("Markdown() does not end with the disclaimer:\n%s", md)
	}
}

func TestMarkdown_SectionOrder(t *testing.T) {
	s := newSession(map[dm.Kind]dm.Result{
		dm.KindLinks:       dm.Links{{URL: "https://github.com/acme", Context: "repo"}},
		dm.KindActionItems: &dm.ActionItems{ActionItems: []string{"Ship docs"}},
		dm.KindSentiment:   &dm.Sentiment{Sentiment: "mixed", Score: -0.1, Explanation: "split"},
		dm.KindKeyPoints:   &dm.KeyPoints{KeyPoints: []string{"Fast"}, Quotes: []string{"wow"}},
		dm.KindWordCloud:   dm.WordCloud{{Text: "rust", Value: 70}},
		dm.KindSummary:     &dm.Summary{Summary: "Overview"},
	})
	s.Title = "Launch Day"

	md := Markdown(s)
	headings := []string{
		"## Discussion Summary",
		"## Word Cloud",
		"## Key Discussion Points",
		"## Key Quotes",
		"## Sentiment Analysis",
		"## Action Items & Follow-ups",
		"## Contextualized Links",
	}
	last := -1
	for _, h := range headings {
		i := strings.Index(md, h)
		if i < 0 {
			t.Fatalf("missing heading %q\n%s", h, md)
		}
		if i < last {
			t.Errorf("heading %q out of order", h)
		}
		last = i
	}
	for _, want := range []string{
		"**Title:** Launch Day",
		"1. **[https://github.com/acme](https://github.com/acme)**\n   - Context: repo",
		"> wow",
		"- Ship docs",
		"Score:** -0.10",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q", want)
		}
	}
}

func TestSection(t *testing.T) {
	s := newSession(map[dm.Kind]dm.Result{
		dm.KindKeyPoints: &dm.KeyPoints{KeyPoints: []string{"p1", "p2"}, Quotes: []string{"q1"}},
		dm.KindSummary:   &dm.Summary{},
	})

	got, ok := Section(s, dm.KindKeyPoints)
	if !ok || got != "- p1\n- p2\n\n> q1" {
		t.Errorf("Section(keyPoints) = %q, %v", got, ok)
	}
	if strings.Contains(got, "#") {
		t.Errorf("Section() contains a heading: %q", got)
	}
	if _, ok := Section(s, dm.KindSummary); ok {
		t.Error("Section(summary) reported data for an empty summary")
	}
	if _, ok := Section(s, dm.KindLinks); ok {
		t.Error("Section(links) reported data for a missing result")
	}
}

func TestHasContent(t *testing.T) {
	if HasContent(newSession(nil)) {
		t.Error("HasContent() = true for an empty session")
	}
	if !HasContent(newSession(map[dm.Kind]dm.Result{dm.KindActionItems: &dm.ActionItems{ActionItems: []string{"x"}}})) {
		t.Error("HasContent() = false with an action item")
	}
}

func TestHTML(t *testing.T) {
	s := newSession(map[dm.Kind]dm.Result{dm.KindSummary: &dm.Summary{Summary: "Some **bold** claim"}})
	html := string(HTML(s))
	for _, want := range []string{"<h1>Crowd Voice Analysis</h1>", "<strong>bold</strong>", "<!DOCTYPE html>"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML() missing %q\n%s", want, html)
		}
	}
}

func TestHTML_DropsRawMarkup(t *testing.T) {
	s := newSession(map[dm.Kind]dm.Result{
		dm.KindSummary:   &dm.Summary{Summary: "ok <script>alert(1)</script>"},
		dm.KindKeyPoints: &dm.KeyPoints{Quotes: []string{`<iframe src="https://evil.example"></iframe> nice`}},
		dm.KindLinks:     dm.Links{{URL: "https://github.com/acme/tool", Context: "[click](javascript:alert(1))"}},
	})
	s.Title = "<img src=x onerror=alert(document.domain)>"

	html := string(HTML(s))
	for _, bad := range []string{"<script", "<img", "<iframe", `href="javascript:`} {
		if strings.Contains(html, bad) {
			t.Errorf("HTML() contains %q\n%s", bad, html)
		}
	}
	if !strings.Contains(html, "<p>ok") {
		t.Errorf("HTML() lost the summary text\n%s", html)
	}
}

func TestFilename(t *testing.T) {
	withTitle := newSession(nil)
	withTitle.Title = "Launch Day: Q&A!"

	hostOnly := newSession(nil)

	pasted := newSession(nil)
	pasted.Source = &dm.Source{Mode: dm.SourceText, Input: "some pasted text"}

	tests := []struct {
		name string
		s    *dm.Session
		ext  string
		want string
	}{
		{"title", withTitle, "md", "crowd-voice-launch-day-qa-2024-05-01.md"},
		{"host", hostOnly, ".md", "crowd-voice-www-example-com-2024-05-01.md"},
		{"pasted", pasted, "html", "crowd-voice-pasted-content-2024-05-01.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.s, tt.ext); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

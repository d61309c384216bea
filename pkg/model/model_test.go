package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDerivePhase(t *testing.T) {
	tests := []struct {
		name   string
		states map[Kind]AnalysisState
		want   Phase
	}{
		{"all loading", map[Kind]AnalysisState{
			KindSummary: {Status: StatusLoading},
			KindLinks:   {Status: StatusNotApplicable},
		}, PhaseAnalyzing},
		{"some done", map[Kind]AnalysisState{
			KindSummary:   {Status: StatusSucceeded},
			KindSentiment: {Status: StatusLoading},
		}, PhasePartiallyComplete},
		{"all terminal", map[Kind]AnalysisState{
			KindSummary:   {Status: StatusSucceeded},
			KindSentiment: {Status: StatusFailed},
			KindLinks:     {Status: StatusNotApplicable},
		}, PhaseComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivePhase(tt.states); got != tt.want {
				t.Errorf("DerivePhase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("video"); err == nil {
		t.Error("ParseKind(video) should fail")
	}
}

func TestSourceReference(t *testing.T) {
	tests := []struct {
		src  Source
		want string
	}{
		{Source{Mode: SourceText, Input: "hello"}, PastedReference},
		{Source{Mode: SourceURL, Input: "https://a.io", ResolvedURL: "https://b.io/x"}, "https://b.io/x"},
		{Source{Mode: SourceURL, Input: "https://a.io"}, "https://a.io"},
	}
	for _, tt := range tests {
		if got := tt.src.Reference(); got != tt.want {
			t.Errorf("Reference() = %q, want %q", got, tt.want)
		}
	}
}

func TestSessionResult(t *testing.T) {
	s := &Session{Analyses: map[Kind]AnalysisState{
		KindSummary:   {Status: StatusSucceeded, Result: &Summary{Summary: "S"}},
		KindSentiment: {Status: StatusFailed, Error: "boom"},
	}}
	if r, ok := s.Result(KindSummary).(*Summary); !ok || r.Summary != "S" {
		t.Errorf("Result(summary) = %v", s.Result(KindSummary))
	}
	if s.Result(KindSentiment) != nil {
		t.Error("Result(sentiment) should be nil for a failed analysis")
	}
}

func TestWordCloudTop(t *testing.T) {
	w := WordCloud{{Text: "a", Value: 9}, {Text: "b", Value: 5}}
	if got := w.Top(8); len(got) != 2 || got[0] != "a" {
		t.Errorf("Top(8) = %v", got)
	}
	if got := w.Top(1); len(got) != 1 {
		t.Errorf("Top(1) = %v", got)
	}
}

func TestEmptyResult(t *testing.T) {
	for _, k := range AllKinds {
		r := EmptyResult(k)
		if r == nil || r.Kind() != k || !r.Empty() {
			t.Errorf("EmptyResult(%s) = %#v", k, r)
		}
	}
}

func TestAnalysisStateJSON(t *testing.T) {
	b, err := json.Marshal(AnalysisState{Status: StatusNotApplicable})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); !strings.Contains(got, `"status":"notApplicable"`) || strings.Contains(got, "startedAt") {
		t.Errorf("json = %s", got)
	}
}

package model

import (
	"fmt"
	"time"
)

// Status 单个分析的状态标签
type Status int

const (
	StatusNotStarted Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
	StatusNotApplicable
)

var statusNames = map[Status]string{
	StatusNotStarted:    "notStarted",
	StatusLoading:       "loading",
	StatusSucceeded:     "succeeded",
	StatusFailed:        "failed",
	StatusNotApplicable: "notApplicable",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText 以名称形式序列化
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal 是否为终态
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusNotApplicable
}

// AnalysisState 单个分析的状态：NotStarted | Loading | Succeeded(Result) | Failed(Error) | NotApplicable
type AnalysisState struct {
	Status     Status    `json:"status"`
	Result     Result    `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt,omitzero"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

// Phase 会话整体阶段
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseFetching          Phase = "fetching"
	PhaseError             Phase = "error"
	PhaseAnalyzing         Phase = "analyzing"
	PhasePartiallyComplete Phase = "partiallyComplete"
	PhaseComplete          Phase = "complete"
)

// DerivePhase 根据各分析状态推导整体阶段
func DerivePhase(states map[Kind]AnalysisState) Phase {
	var terminal, pending int
	for _, st := range states {
		switch {
		case st.Status == StatusNotApplicable:
		case st.Status.Terminal():
			terminal++
		default:
			pending++
		}
	}
	switch {
	case pending == 0:
		return PhaseComplete
	case terminal == 0:
		return PhaseAnalyzing
	default:
		return PhasePartiallyComplete
	}
}

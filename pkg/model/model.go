package model

import (
	"fmt"
	"time"
)

// Kind 分析类型
type Kind string

const (
	KindSummary     Kind = "summary"
	KindKeyPoints   Kind = "keyPoints"
	KindSentiment   Kind = "sentiment"
	KindLinks       Kind = "links"
	KindWordCloud   Kind = "wordCloud"
	KindActionItems Kind = "actionItems"
	KindHeaderImage Kind = "headerImage"
)

// AllKinds 全部分析类型，顺序即面板展示顺序
var AllKinds = []Kind{
	KindHeaderImage,
	KindSummary,
	KindWordCloud,
	KindKeyPoints,
	KindSentiment,
	KindActionItems,
	KindLinks,
}

// ParseKind 解析分析类型名称
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown analysis kind %q", s)
}

// Title 面板标题
func (k Kind) Title() string {
	switch k {
	case KindSummary:
		return "Discussion Summary"
	case KindKeyPoints:
		return "Key Discussion Points & Quotes"
	case KindSentiment:
		return "Sentiment Analysis"
	case KindLinks:
		return "Contextualized Links"
	case KindWordCloud:
		return "Word Cloud"
	case KindActionItems:
		return "Action Items & Follow-ups"
	case KindHeaderImage:
		return "Header Image"
	}
	return string(k)
}

// SourceMode 输入方式
type SourceMode string

const (
	SourceURL  SourceMode = "url"
	SourceText SourceMode = "text"
)

// PastedReference 粘贴文本时使用的来源标识
const PastedReference = "Pasted Content"

// Source 一次提交的来源
type Source struct {
	Mode        SourceMode `json:"mode"`
	Input       string     `json:"input"`                 // 用户提交的 URL（已规范化）或粘贴的文本
	ResolvedURL string     `json:"resolvedUrl,omitempty"` // 跟随重定向后的最终 URL
}

// Reference 返回用于导出和刷新的来源标识
func (s Source) Reference() string {
	if s.Mode == SourceText {
		return PastedReference
	}
	if s.ResolvedURL != "" {
		return s.ResolvedURL
	}
	return s.Input
}

// Session 会话快照，是 SessionState 的只读副本
type Session struct {
	ID          string                 `json:"id"`
	Generation  uint64                 `json:"generation"`
	Phase       Phase                  `json:"phase"`
	Source      *Source                `json:"source,omitempty"`
	Title       string                 `json:"pageTitle,omitempty"`
	Content     string                 `json:"-"`
	FetchError  string                 `json:"fetchError,omitempty"`
	SubmittedAt time.Time              `json:"submittedAt"`
	Analyses    map[Kind]AnalysisState `json:"analyses"`
}

// Result 返回某类分析的结果；未成功时为 nil
func (s *Session) Result(k Kind) Result {
	st, ok := s.Analyses[k]
	if !ok || st.Status != StatusSucceeded {
		return nil
	}
	return st.Result
}

package model

// Result 各类分析结果的公共接口
type Result interface {
	Kind() Kind
	// Empty 结果是否没有可展示的数据
	Empty() bool
}

// SummaryRequest 摘要请求
type SummaryRequest struct {
	URL     string
	Content string
}

// KeyPointsRequest 要点与引用请求
type KeyPointsRequest struct {
	Conversation string
}

// SentimentRequest 情感分析请求
type SentimentRequest struct {
	Text string
}

// LinksRequest 外部链接请求
type LinksRequest struct {
	PageContent string
	SourceURL   string
}

// WordCloudRequest 词云请求
type WordCloudRequest struct {
	TextContent string
}

// ActionItemsRequest 行动项请求
type ActionItemsRequest struct {
	Conversation string
}

// HeaderImageRequest 头图请求，Text 为已拼好的主题描述
type HeaderImageRequest struct {
	Text string
}

// Summary 讨论摘要
type Summary struct {
	Summary string `json:"summary"`
}

func (*Summary) Kind() Kind { return KindSummary }
func (s *Summary) Empty() bool { return s == nil || s.Summary == "" }

// KeyPoints 要点与引用
type KeyPoints struct {
	KeyPoints []string `json:"keyPoints"`
	Quotes    []string `json:"quotes"`
}

func (*KeyPoints) Kind() Kind { return KindKeyPoints }
func (k *KeyPoints) Empty() bool {
	return k == nil || (len(k.KeyPoints) == 0 && len(k.Quotes) == 0)
}

// Sentiment 情感分析
type Sentiment struct {
	Sentiment   string  `json:"sentiment"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

func (*Sentiment) Kind() Kind { return KindSentiment }
func (s *Sentiment) Empty() bool { return s == nil || s.Sentiment == "" }

// Link 讨论中出现的外部链接
type Link struct {
	URL     string `json:"url"`
	Context string `json:"context"`
}

// Links 外部链接列表
type Links []Link

func (Links) Kind() Kind { return KindLinks }
func (l Links) Empty() bool { return len(l) == 0 }

// Word 词云条目，Value 取值 1-100
type Word struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// WordCloud 词云
type WordCloud []Word

func (WordCloud) Kind() Kind { return KindWordCloud }
func (w WordCloud) Empty() bool { return len(w) == 0 }

// Top 返回前 n 个词
func (w WordCloud) Top(n int) []string {
	if n > len(w) {
		n = len(w)
	}
	terms := make([]string, 0, n)
	for _, word := range w[:n] {
		terms = append(terms, word.Text)
	}
	return terms
}

// ActionItems 行动项
type ActionItems struct {
	ActionItems []string `json:"actionItems"`
}

func (*ActionItems) Kind() Kind { return KindActionItems }
func (a *ActionItems) Empty() bool { return a == nil || len(a.ActionItems) == 0 }

// HeaderImage 头图，ImageURL 为 data URI
type HeaderImage struct {
	ImageURL string `json:"imageUrl"`
}

func (*HeaderImage) Kind() Kind { return KindHeaderImage }
func (h *HeaderImage) Empty() bool { return h == nil || h.ImageURL == "" }

// EmptyResult 返回某类分析的空结果，用于失败降级
func EmptyResult(k Kind) Result {
	switch k {
	case KindSummary:
		return &Summary{}
	case KindKeyPoints:
		return &KeyPoints{KeyPoints: []string{}, Quotes: []string{}}
	case KindSentiment:
		return &Sentiment{}
	case KindLinks:
		return Links{}
	case KindWordCloud:
		return WordCloud{}
	case KindActionItems:
		return &ActionItems{ActionItems: []string{}}
	case KindHeaderImage:
		return &HeaderImage{}
	}
	return nil
}

// Package export 将会话中的分析结果组装为 Markdown / HTML 文档
package export

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/russross/blackfriday/v2"

	dm "github.com/iWorld-y/crowd_voice/pkg/model"
	"github.com/iWorld-y/crowd_voice/pkg/slug"
)

const (
	documentTitle = "Crowd Voice Analysis"
	Disclaimer    = "AI-generated content may contain inaccuracies. Always verify critical information."
	filePrefix    = "crowd-voice"
)

// Order 导出时各节的固定顺序
var Order = []dm.Kind{
	dm.KindSummary,
	dm.KindWordCloud,
	dm.KindKeyPoints,
	dm.KindSentiment,
	dm.KindActionItems,
	dm.KindLinks,
}

type block struct {
	heading string
	body    string
}

// HasContent 会话中是否至少有一节可导出
func HasContent(s *dm.Session) bool {
	for _, k := range Order {
		if len(blocks(s, k)) > 0 {
			return true
		}
	}
	return false
}

// Markdown 组装完整的 Markdown 文档，没有数据的节会被省略
func Markdown(s *dm.Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", documentTitle)
	if s.Source != nil {
		fmt.Fprintf(&sb, "**Analyzed Source:** %s\n", s.Source.Reference())
	}
	if s.Title != "" {
		fmt.Fprintf(&sb, "**Title:** %s\n", s.Title)
	}
	fmt.Fprintf(&sb, "**Analysis Timestamp:** %s\n\n", s.SubmittedAt.UTC().Format(time.RFC3339))

	for _, k := range Order {
		for _, b := range blocks(s, k) {
			fmt.Fprintf(&sb, "## %s\n%s\n\n", b.heading, b.body)
		}
	}

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "*%s*\n", Disclaimer)
	return sb.String()
}

// Section 单个面板的纯文本，格式与 Markdown 中一致但不含文档头
func Section(s *dm.Session, kind dm.Kind) (string, bool) {
	bs := blocks(s, kind)
	if len(bs) == 0 {
		return "", false
	}
	bodies := make([]string, 0, len(bs))
	for _, b := range bs {
		bodies = append(bodies, b.body)
	}
	return strings.Join(bodies, "\n\n"), true
}

// HTML 将 Markdown 文档渲染为完整的 HTML 页面；标题与模型输出中的原始 HTML 会被丢弃
func HTML(s *dm.Session) []byte {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML | blackfriday.Safelink,
	})
	body := blackfriday.Run([]byte(Markdown(s)), blackfriday.WithRenderer(renderer))
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&sb, "<title>%s</title>", documentTitle)
	sb.WriteString("</head><body>\n")
	sb.Write(body)
	sb.WriteString("</body></html>\n")
	return []byte(sb.String())
}

// Filename 下载文件名：crowd-voice-<标题|域名|pasted-content>-<日期>.<扩展名>
func Filename(s *dm.Session, ext string) string {
	host := ""
	if s.Source != nil && s.Source.Mode == dm.SourceURL {
		if u, err := url.Parse(s.Source.Reference()); err == nil {
			host = u.Hostname()
		}
	}
	name := slug.GenerateWithFallback(s.Title, host, "pasted-content")
	date := s.SubmittedAt.UTC().Format(time.DateOnly)
	return fmt.Sprintf("%s-%s-%s.%s", filePrefix, name, date, strings.TrimPrefix(ext, "."))
}

func blocks(s *dm.Session, kind dm.Kind) []block {
	switch r := s.Result(kind).(type) {
	case *dm.Summary:
		if !r.Empty() {
			return []block{{kind.Title(), r.Summary}}
		}
	case dm.WordCloud:
		if !r.Empty() {
			lines := make([]string, 0, len(r))
			for _, w := range r {
				lines = append(lines, fmt.Sprintf("- %s (value: %d)", w.Text, w.Value))
			}
			return []block{{kind.Title(), strings.Join(lines, "\n")}}
		}
	case *dm.KeyPoints:
		var out []block
		if r != nil && len(r.KeyPoints) > 0 {
			out = append(out, block{"Key Discussion Points", prefixed("- ", r.KeyPoints, "\n")})
		}
		if r != nil && len(r.Quotes) > 0 {
			out = append(out, block{"Key Quotes", prefixed("> ", r.Quotes, "\n\n")})
		}
		return out
	case *dm.Sentiment:
		if !r.Empty() {
			body := fmt.Sprintf("- **Overall Sentiment:** %s\n- **Score:** %.2f\n- **Explanation:** %s",
				r.Sentiment, r.Score, r.Explanation)
			return []block{{kind.Title(), body}}
		}
	case *dm.ActionItems:
		if !r.Empty() {
			return []block{{kind.Title(), prefixed("- ", r.ActionItems, "\n")}}
		}
	case dm.Links:
		if !r.Empty() {
			lines := make([]string, 0, len(r)*2)
			for i, l := range r {
				lines = append(lines, fmt.Sprintf("%d. **[%s](%s)**", i+1, l.URL, l.URL))
				lines = append(lines, "   - Context: "+l.Context)
			}
			return []block{{kind.Title(), strings.Join(lines, "\n")}}
		}
	}
	return nil
}

func prefixed(prefix string, items []string, sep string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, prefix+item)
	}
	return strings.Join(lines, sep)
}

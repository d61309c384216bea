package analysis

import (
	"strings"

	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

const (
	seedTerms    = 8
	seedSnippet  = 500
	genericTheme = "people gathered in an online discussion, exchanging ideas and opinions"
)

// HeaderImageSeed 头图主题：词云前 8 个词 > 页面标题 > 正文前 500 字 > 通用主题
func HeaderImageSeed(words dm.WordCloud, title, content string) string {
	if terms := words.Top(seedTerms); len(terms) > 0 {
		return "the key themes " + strings.Join(terms, ", ")
	}
	if title = strings.TrimSpace(title); title != "" {
		return "a discussion titled " + title
	}
	if snippet := Truncate(strings.Join(strings.Fields(content), " "), seedSnippet); snippet != "" {
		return "the following discussion excerpt: " + snippet
	}
	return genericTheme
}

// Truncate 按字符截断
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := 0
	for i := range s {
		if runes == n {
			return s[:i]
		}
		runes++
	}
	return s
}

package sentiment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/iWorld-y/crowd_voice/pkg/model"
)

var (
	analyzer = govader.NewSentimentIntensityAnalyzer()

	markdownLink = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURL      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
)

// 与 LLM 的分类阈值保持一致
const (
	polarThreshold = 0.20
	mixedCeiling   = 0.30
)

// RemoveLinks 去掉 Markdown 链接和裸 URL，只保留文字
func RemoveLinks(input string) string {
	input = markdownLink.ReplaceAllString(input, "$1")
	return bareURL.ReplaceAllString(input, "")
}

// PlainText 将 Markdown/HTML 混合文本转为纯文本
func PlainText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := htmlTag.ReplaceAllString(string(output), " ")
	return RemoveLinks(strings.Join(strings.Fields(plain), " "))
}

// Analyze 使用 VADER 词典计算情感，作为 LLM 不可用时的降级结果
func Analyze(text string) *model.Sentiment {
	plain := PlainText(text)
	scores := analyzer.PolarityScores(plain)
	score := scores.Compound

	label := "neutral"
	switch {
	case scores.Positive > 0.15 && scores.Negative > 0.15 && score > -mixedCeiling && score < mixedCeiling:
		label = "mixed"
	case score >= polarThreshold:
		label = "positive"
	case score <= -polarThreshold:
		label = "negative"
	}

	return &model.Sentiment{
		Sentiment: label,
		Score:     score,
		Explanation: fmt.Sprintf(
			"Lexicon-based estimate (positive %.2f, negative %.2f, neutral %.2f); the language model was unavailable.",
			scores.Positive, scores.Negative, scores.Neutral),
	}
}

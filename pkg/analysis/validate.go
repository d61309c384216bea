package analysis

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"

	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

const (
	maxWords      = 50
	minWordValue  = 1
	maxWordValue  = 100
	mixedMaxScore = 0.3
)

var sentimentLabels = map[string]bool{
	"positive": true,
	"negative": true,
	"neutral":  true,
	"mixed":    true,
}

func validateSummary(s *dm.Summary) error {
	s.Summary = strings.TrimSpace(s.Summary)
	if s.Summary == "" {
		return errors.New("summary is empty")
	}
	return nil
}

func validateSentiment(s *dm.Sentiment) error {
	s.Sentiment = strings.ToLower(strings.TrimSpace(s.Sentiment))
	s.Explanation = strings.TrimSpace(s.Explanation)
	if !sentimentLabels[s.Sentiment] {
		return fmt.Errorf("unknown sentiment label %q", s.Sentiment)
	}
	if math.IsNaN(s.Score) || math.IsInf(s.Score, 0) {
		return errors.New("sentiment score is not a finite number")
	}
	if s.Score < -1 || s.Score > 1 {
		return fmt.Errorf("sentiment score %.2f out of range [-1, 1]", s.Score)
	}
	if s.Sentiment == "mixed" {
		s.Score = math.Max(-mixedMaxScore, math.Min(mixedMaxScore, s.Score))
	}
	return nil
}

// cleanList 去掉空白条目，结果非 nil
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

type wordWire struct {
	Text  string `json:"text"`
	Value number `json:"value"`
}

// validateWordCloud 合并大小写重复项（保留最高分），按分值降序，最多 50 个
func validateWordCloud(wire []wordWire) dm.WordCloud {
	index := make(map[string]int, len(wire))
	words := make(dm.WordCloud, 0, len(wire))
	for _, w := range wire {
		text := strings.Join(strings.Fields(w.Text), " ")
		if text == "" {
			continue
		}
		value := int(math.Round(float64(w.Value)))
		value = max(minWordValue, min(maxWordValue, value))

		key := strings.ToLower(text)
		if i, ok := index[key]; ok {
			if value > words[i].Value {
				words[i].Value = value
			}
			continue
		}
		index[key] = len(words)
		words = append(words, dm.Word{Text: text, Value: value})
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Value > words[j].Value
	})
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return words
}

// validateLinks 只保留与来源不同域名的绝对 http(s) 链接，并去重
func validateLinks(links []dm.Link, sourceURL string) dm.Links {
	sourceHost := ""
	if u, err := url.Parse(sourceURL); err == nil {
		sourceHost = bareHost(u)
	}

	seen := make(map[string]bool, len(links))
	out := make(dm.Links, 0, len(links))
	for _, l := range links {
		raw := strings.TrimSpace(l.URL)
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		if sourceHost != "" && bareHost(u) == sourceHost {
			continue
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		out = append(out, dm.Link{URL: raw, Context: strings.TrimSpace(l.Context)})
	}
	return out
}

func bareHost(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength 生成结果的最大长度
const MaxLength = 60

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// Generate 生成适合作为文件名的 slug
func Generate(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(transliterate(s))
	s = strings.NewReplacer(" ", "-", "_", "-", ".", "-", "/", "-").Replace(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// GenerateWithFallback 依次尝试候选值，返回第一个非空的 slug
func GenerateWithFallback(candidates ...string) string {
	for _, c := range candidates {
		if slug := Generate(c); slug != "" {
			return slug
		}
	}
	return ""
}

// transliterate 去掉变音符号，例如 "Café" -> "Cafe"
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

package embedding

import (
	"regexp"
	"strings"
)

// PreprocessV1 is the only preprocessing version
const PreprocessV1 = "embed_text_v1"

const maxEmbedTextRunes = 2000

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	boldStarRe    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnderRe   = regexp.MustCompile(`__(.*?)__`)
	italicStarRe  = regexp.MustCompile(`\*(.*?)\*`)
	italicUnderRe = regexp.MustCompile(`_(.*?)_`)
	leadBulletRe  = regexp.MustCompile(`^[-•]\s*`)
)

// Preprocess normalizes text before embedding. embed_text_v1 is the only version,
// so unknown versions fall back to it.
func Preprocess(text, _ string) string {
	return embedTextV1(text)
}

// embedTextV1 trims, collapses whitespace, strips markdown emphasis and a leading
// bullet marker, then truncates to 2000 runes
func embedTextV1(text string) string {
	s := strings.TrimSpace(text)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = boldStarRe.ReplaceAllString(s, "${1}")
	s = boldUnderRe.ReplaceAllString(s, "${1}")
	s = italicStarRe.ReplaceAllString(s, "${1}")
	s = italicUnderRe.ReplaceAllString(s, "${1}")
	s = leadBulletRe.ReplaceAllString(s, "")

	if runes := []rune(s); len(runes) > maxEmbedTextRunes {
		s = string(runes[:maxEmbedTextRunes])
	}
	return s
}

// preview returns the first n runes of s
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

package evidence

import (
	"regexp"
	"strings"
)

var wordsOnly = regexp.MustCompile(`(?i)^[a-z0-9\s]+$`)

// phrase is a rule phrase with its compiled matcher
type phrase struct {
	text string
	re   *regexp.Regexp
}

// compilePhrases builds case-insensitive matchers. Phrases made only of letters,
// digits and spaces match on word boundaries; anything else matches literally.
func compilePhrases(list []string) []phrase {
	out := make([]phrase, 0, len(list))
	for _, p := range list {
		if strings.TrimSpace(p) == "" {
			continue
		}
		pattern := regexp.QuoteMeta(p)
		if wordsOnly.MatchString(p) {
			pattern = `\b` + pattern + `\b`
		}
		out = append(out, phrase{text: p, re: regexp.MustCompile("(?i)" + pattern)})
	}
	return out
}

func firstMatch(text string, phrases []phrase) string {
	for _, p := range phrases {
		if p.re.MatchString(text) {
			return p.text
		}
	}
	return ""
}

func collectMatches(text string, phrases []phrase) []string {
	matches := []string{}
	for _, p := range phrases {
		if p.re.MatchString(text) {
			matches = append(matches, p.text)
		}
	}
	return matches
}

func collectMetricMatches(text string, patterns []*regexp.Regexp) []string {
	matches := []string{}
	for _, re := range patterns {
		for _, m := range re.FindAllString(text, -1) {
			if m != "" {
				matches = append(matches, m)
			}
		}
	}
	return unique(matches)
}

func unique(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, item := range list {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

package grading

import (
	"strings"

	"golang.org/x/text/width"
)

// punctuation is the set of symbols that are treated as word separators
// when comparing answers.
const punctuation = ".,!?;:\"'`()[]{}<>/\\|+=_-~@#$%^&*"

var punctuationReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(punctuation)*2)
	for _, r := range punctuation {
		pairs = append(pairs, string(r), " ")
	}
	return strings.NewReplacer(pairs...)
}()

// Normalize canonicalizes an answer for comparison: fullwidth forms are
// folded to ASCII, the text is lower-cased, punctuation becomes spaces and
// runs of whitespace collapse to a single space. The result is trimmed.
//
// Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = width.Fold.String(s)
	s = strings.ToLower(s)
	s = punctuationReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// listSplitter separates entries inside a single delimited string.
func listSplitter(r rune) bool {
	switch r {
	case '\n', '\r', ';', '|', ',':
		return true
	}
	return false
}

// ParseAnswerList merges answer lists from any number of raw sources into
// one ordered set of normalized, non-empty strings.
//
// A source may be a string delimited by newlines, semicolons, pipes or
// commas, a []string, a []any holding strings, or nil. Other values are
// ignored. Duplicates are detected after normalization and the first
// occurrence wins.
func ParseAnswerList(sources ...any) []string {
	seen := make(map[string]struct{})
	out := []string{}

	add := func(raw string) {
		n := Normalize(raw)
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	for _, src := range sources {
		switch v := src.(type) {
		case nil:
		case string:
			for _, part := range strings.FieldsFunc(v, listSplitter) {
				add(part)
			}
		case []string:
			for _, s := range v {
				add(s)
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		}
	}
	return out
}

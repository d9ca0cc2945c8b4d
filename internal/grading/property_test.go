package grading_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/abhisek/lingo/internal/grading"
)

// TestNormalizeProperties checks Normalize on arbitrary unicode input.
func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("normalize is idempotent", prop.ForAll(
		func(s string) bool {
			once := grading.Normalize(s)
			return grading.Normalize(once) == once
		},
		gen.AnyString(),
	))

	properties.Property("normalized text is trimmed and single spaced", prop.ForAll(
		func(words []string) bool {
			n := grading.Normalize(strings.Join(words, " .,  !? "))
			return n == strings.TrimSpace(n) && !strings.Contains(n, "  ")
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("normalized text has no separators", prop.ForAll(
		func(s string) bool {
			return !strings.ContainsAny(grading.Normalize(s+"-_/|"), ".,!?;:\"'`()[]{}/\\|+=_-")
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestDistanceProperties checks the metric axioms of Distance.
func TestDistanceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("identity", prop.ForAll(
		func(a string) bool {
			return grading.Distance(a, a) == 0
		},
		gen.AnyString(),
	))

	properties.Property("symmetry", prop.ForAll(
		func(a, b string) bool {
			return grading.Distance(a, b) == grading.Distance(b, a)
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("triangle inequality", prop.ForAll(
		func(a, b, c string) bool {
			return grading.Distance(a, c) <= grading.Distance(a, b)+grading.Distance(b, c)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("bounded by lengths", prop.ForAll(
		func(a, b string) bool {
			la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
			d := grading.Distance(a, b)
			return d >= abs(la-lb) && d <= max(la, lb)
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestGradePrecedence checks that an exact match wins over every list.
func TestGradePrecedence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("exact match is correct even when listed elsewhere", prop.ForAll(
		func(s string) bool {
			got := grading.Grade(s, s, []string{s}, []string{s})
			if grading.Normalize(s) == "" {
				return got.Label == grading.LabelWrong
			}
			return got.Label == grading.LabelCorrect
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

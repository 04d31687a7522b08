package menu

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// fold returns the caseless NFC form of s used for every text comparison.
// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

func containsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}

// indexFold returns the byte offset in s of the first caseless occurrence of
// substr, or -1. Offsets refer to s itself, not its folded form, so the prefix
// s[:i] is safe to keep even when folding changes byte lengths.
func indexFold(s, substr string) int {
	want := fold(substr)
	if want == "" {
		return -1
	}
	if !strings.Contains(fold(s), want) {
		return -1
	}
	for i := range s {
		for j := i; j < len(s); {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
			got := fold(s[i:j])
			if strings.HasPrefix(got, want) {
				return i
			}
			if !strings.HasPrefix(want, got) {
				break
			}
		}
	}
	return -1
}

// IsTargetDay reports whether text names the target day. Matching is a
// caseless substring test: pages put the day name in its own heading token.
func IsTargetDay(text string, day Day) bool {
	return containsFold(text, day.Name())
}

// IsAnyDayBoundary reports whether text names any weekday other than day,
// which marks the start of another day's section.
func IsAnyDayBoundary(text string, day Day) bool {
	for wd, name := range day.Locale.Names {
		if wd == int(day.Weekday) {
			continue
		}
		if containsFold(text, name) {
			return true
		}
	}
	return false
}

// FindStopIndex returns the byte offset of the leftmost stop marker in text,
// compared caselessly, or -1 when no marker occurs. Empty markers are ignored.
// The offset refers to the NFC form of text, which is text itself for
// normalised input.
func FindStopIndex(text string, markers []string) int {
	text = norm.NFC.String(text)
	best := -1
	for _, m := range markers {
		i := indexFold(text, m)
		if i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

package specifier

import (
	"fmt"
	"regexp"
	"strconv"
)

// Match is a format specifier found in a string resource.
type Match struct {
	Start, End int
	Value      string
	// Index is the positional argument index, or 0 for a bare specifier like %s.
	Index int
}

// patterns to detect format specifiers already present in string content.
var (
	positionalPattern = regexp.MustCompile(`%([1-9][0-9]*)\$[-#+0,(]*[0-9]*(?:\.[0-9]+)?[sSdfeEgGxXobcC]`)
	barePattern       = regexp.MustCompile(`%[-#+0,(]*[0-9]*(?:\.[0-9]+)?[sSdfeEgGxXobcC]`)
	escapedPercent    = regexp.MustCompile(`%%`)
)

// Positional returns the positional string specifier for a 1-based index, e.g. %2$s.
func Positional(index int) string {
	return fmt.Sprintf("%%%d$s", index)
}

// Find returns every format specifier in text, in order of appearance.
// Escaped percent signs (%%) are skipped.
func Find(text string) []Match {
	escaped := escapedPercent.FindAllStringIndex(text, -1)

	var matches []Match
	lastEnd := -1
	for i := 0; i < len(text); i++ {
		if text[i] != '%' || i < lastEnd || insideAny(escaped, i) {
			continue
		}
		rest := text[i:]
		if loc := positionalPattern.FindStringSubmatchIndex(rest); loc != nil && loc[0] == 0 {
			n, _ := strconv.Atoi(rest[loc[2]:loc[3]])
			matches = append(matches, Match{Start: i, End: i + loc[1], Value: rest[:loc[1]], Index: n})
			lastEnd = i + loc[1]
			continue
		}
		if loc := barePattern.FindStringIndex(rest); loc != nil && loc[0] == 0 {
			matches = append(matches, Match{Start: i, End: i + loc[1], Value: rest[:loc[1]]})
			lastEnd = i + loc[1]
		}
	}
	return matches
}

// Indices returns the positional indices in text, in order of appearance.
func Indices(text string) []int {
	var out []int
	for _, m := range Find(text) {
		if m.Index > 0 {
			out = append(out, m.Index)
		}
	}
	return out
}

func insideAny(spans [][]int, pos int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

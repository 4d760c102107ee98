package parser

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned when a resource file is not valid UTF-8.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

// entryPattern matches a <string> entry with an optional msgid attribute.
// The content is matched non-greedily across line breaks, so an entry ends at
// the nearest </string>.
var entryPattern = regexp.MustCompile(`(?s)<string name="([^"]+)"(?: msgid="([^"]+)")?>(.*?)</string>`)

// placeholderPattern matches an <xliff:g> tag with any attributes. The inner
// text does not span lines and the first closing tag wins.
var placeholderPattern = regexp.MustCompile(`<xliff:g[^>]*>(.*?)</xliff:g>`)

// Parse locates every string entry in content.
func Parse(content string) *ParseResult {
	result := &ParseResult{Raw: content}

	for _, loc := range entryPattern.FindAllStringSubmatchIndex(content, -1) {
		entry := StringEntry{
			Name:    content[loc[2]:loc[3]],
			Content: content[loc[6]:loc[7]],
			Start:   loc[0],
			End:     loc[1],
		}
		if loc[4] >= 0 {
			entry.SecondaryID = content[loc[4]:loc[5]]
			entry.HasSecondaryID = true
		}
		result.Entries = append(result.Entries, entry)
	}

	return result
}

// ParseFile reads a resource file as UTF-8 and locates its entries.
func ParseFile(filePath string) (*ParseResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read strings file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("decode strings file: %w", ErrInvalidEncoding)
	}

	result := Parse(string(data))
	result.FilePath = filePath
	return result, nil
}

// Placeholders returns the legacy placeholder tags in an entry's content, left to right.
func Placeholders(content string) []Placeholder {
	var out []Placeholder
	for _, loc := range placeholderPattern.FindAllStringSubmatchIndex(content, -1) {
		out = append(out, Placeholder{
			Text:  content[loc[2]:loc[3]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return out
}

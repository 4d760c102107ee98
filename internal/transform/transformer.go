// Package transform rewrites legacy <xliff:g> placeholders in Android string
// resources into positional format specifiers.
package transform

import (
	"strings"

	"strings-rewriter/internal/parser"
	"strings-rewriter/internal/specifier"
)

// Options selects between the two supported rewrite behaviors.
type Options struct {
	// PreserveSecondaryIdentifier keeps a msgid attribute on the rewritten entry.
	PreserveSecondaryIdentifier bool
	// StripRedundantQuotes removes a quote pair that wraps the whole rewritten
	// content. When set, quote-wrapped content is not protected before
	// replacement.
	StripRedundantQuotes bool
}

// DefaultOptions keeps msgid attributes and retains quoting.
func DefaultOptions() Options {
	return Options{PreserveSecondaryIdentifier: true}
}

// EntryResult describes the rewrite of a single string entry.
type EntryResult struct {
	Name string
	// Tags is the number of placeholder tags replaced.
	Tags int
	// Changed reports whether the emitted entry differs from the original text.
	Changed bool
	// MixedSpecifiers reports that the entry carried format specifiers outside
	// its placeholder tags before the rewrite.
	MixedSpecifiers bool
}

// Result is the outcome of transforming one file's content.
type Result struct {
	Text    string
	Entries []EntryResult
}

// Tags returns the total number of placeholders replaced.
func (r *Result) Tags() int {
	n := 0
	for _, e := range r.Entries {
		n += e.Tags
	}
	return n
}

// Changed reports whether any entry was rewritten to different text.
func (r *Result) Changed() bool {
	for _, e := range r.Entries {
		if e.Changed {
			return true
		}
	}
	return false
}

// Transformer rewrites string entries. It holds no per-file state and is safe
// for concurrent use.
type Transformer struct {
	opts Options
}

// NewTransformer creates a Transformer with the given options.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{opts: opts}
}

// Transform rewrites every string entry in content. Text outside entries is
// copied unchanged.
func (t *Transformer) Transform(content string) *Result {
	return t.Reconstruct(parser.Parse(content))
}

// Reconstruct rebuilds the file content from a parse result.
func (t *Transformer) Reconstruct(pr *parser.ParseResult) *Result {
	result := &Result{}
	if len(pr.Entries) == 0 {
		result.Text = pr.Raw
		return result
	}

	var b strings.Builder
	b.Grow(len(pr.Raw))

	last := 0
	for _, entry := range pr.Entries {
		b.WriteString(pr.Raw[last:entry.Start])

		rewritten, er := t.RewriteEntry(entry)
		er.Changed = rewritten != pr.Raw[entry.Start:entry.End]
		b.WriteString(rewritten)

		result.Entries = append(result.Entries, er)
		last = entry.End
	}
	b.WriteString(pr.Raw[last:])

	result.Text = b.String()
	return result
}

// RewriteEntry returns the rewritten text of a single entry. Placeholder
// numbering starts at 1 for every entry.
func (t *Transformer) RewriteEntry(entry parser.StringEntry) (string, EntryResult) {
	er := EntryResult{Name: entry.Name}
	content := entry.Content

	quoted := false
	if !t.opts.StripRedundantQuotes && wrappedIn(content, '"') {
		quoted = true
		content = content[1 : len(content)-1]
	}

	updated, tags, mixed := replacePlaceholders(content)
	er.Tags = tags
	er.MixedSpecifiers = mixed

	switch {
	case quoted:
		updated = `"` + updated + `"`
	case t.opts.StripRedundantQuotes && (wrappedIn(updated, '"') || wrappedIn(updated, '\'')):
		updated = updated[1 : len(updated)-1]
	}

	var b strings.Builder
	b.WriteString(`<string name="`)
	b.WriteString(entry.Name)
	b.WriteByte('"')
	if entry.HasSecondaryID && t.opts.PreserveSecondaryIdentifier {
		b.WriteString(` msgid="`)
		b.WriteString(entry.SecondaryID)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(updated)
	b.WriteString(`</string>`)

	return b.String(), er
}

// replacePlaceholders swaps each placeholder tag for %N$s and reports the tag
// count and whether specifiers already existed outside the tags.
func replacePlaceholders(content string) (string, int, bool) {
	tags := parser.Placeholders(content)
	if len(tags) == 0 {
		return content, 0, false
	}

	var b, outside strings.Builder
	last := 0
	for i, tag := range tags {
		b.WriteString(content[last:tag.Start])
		outside.WriteString(content[last:tag.Start])
		b.WriteString(specifier.Positional(i + 1))
		// Keep a separator so text on both sides of a tag cannot join into a specifier.
		outside.WriteByte(' ')
		last = tag.End
	}
	b.WriteString(content[last:])
	outside.WriteString(content[last:])

	mixed := len(specifier.Find(outside.String())) > 0
	return b.String(), len(tags), mixed
}

// wrappedIn reports whether s starts and ends with q as two distinct characters.
func wrappedIn(s string, q byte) bool {
	return len(s) >= 2 && s[0] == q && s[len(s)-1] == q
}

package parser

// StringEntry is one <string> definition located in a resource file.
type StringEntry struct {
	// Name is the value of the required name attribute.
	Name string
	// SecondaryID is the value of the msgid attribute, empty when absent.
	SecondaryID string
	// HasSecondaryID reports whether the start marker carried a msgid attribute.
	HasSecondaryID bool
	// Content is the raw text between the start and end markers.
	Content string
	// Start and End are byte offsets of the whole entry in the file content.
	Start, End int
}

// Placeholder is a legacy <xliff:g> span inside an entry's content.
type Placeholder struct {
	// Text is the display text between the tags. It is discarded on rewrite.
	Text string
	// Start and End are byte offsets relative to the entry content.
	Start, End int
}

// ParseResult holds the located entries for a single file.
type ParseResult struct {
	// FilePath is the path the content was read from, empty for in-memory input.
	FilePath string
	// Raw is the full original content.
	Raw string
	// Entries are the string entries in document order.
	Entries []StringEntry
}

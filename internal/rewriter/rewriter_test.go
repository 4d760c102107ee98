package rewriter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"strings-rewriter/internal/filewalker"
	"strings-rewriter/internal/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	taggedInput  = `<resources><string name="g" msgid="9"><xliff:g id="a">%s</xliff:g> and <xliff:g id="b">%s</xliff:g></string></resources>`
	taggedOutput = `<resources><string name="g" msgid="9">%1$s and %2$s</string></resources>`
	plainInput   = `<resources><string name="p">plain</string></resources>`
)

func writeFile(t *testing.T, path string, data []byte, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, perm))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func discover(t *testing.T, root string) []filewalker.FileEntry {
	t.Helper()
	entries, err := filewalker.NewWalker("values", "strings.xml").Walk(root)
	require.NoError(t, err)
	return entries
}

func TestRewriter_Run(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "values", "strings.xml")
	bad := filepath.Join(root, "values-de", "strings.xml")
	plain := filepath.Join(root, "values-fr", "strings.xml")

	writeFile(t, good, []byte(taggedInput), 0644)
	writeFile(t, bad, []byte{0xff, 0xfe, '<'}, 0644)
	writeFile(t, plain, []byte(plainInput), 0644)

	r := NewRewriter(transform.NewTransformer(transform.DefaultOptions()), 1, false)
	summary := r.Run(context.Background(), discover(t, root))

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 2, summary.Tags)

	require.Len(t, summary.Files, 3)
	assert.Equal(t, good, summary.Files[0].Path)
	assert.Equal(t, bad, summary.Files[1].Path)
	assert.Contains(t, summary.Files[1].Error, "not valid UTF-8")
	assert.Equal(t, plain, summary.Files[2].Path)
	assert.True(t, summary.Files[2].Written)
	assert.False(t, summary.Files[2].Changed)

	assert.Equal(t, taggedOutput, readFile(t, good))
	assert.Equal(t, plainInput, readFile(t, plain))
	assert.Equal(t, string([]byte{0xff, 0xfe, '<'}), readFile(t, bad))
}

func TestRewriter_DryRun(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "values", "strings.xml")
	writeFile(t, path, []byte(taggedInput), 0644)

	r := NewRewriter(transform.NewTransformer(transform.DefaultOptions()), 1, true)
	summary := r.Run(context.Background(), discover(t, root))

	require.Len(t, summary.Files, 1)
	assert.True(t, summary.Files[0].Changed)
	assert.False(t, summary.Files[0].Written)
	assert.Equal(t, 1, summary.Files[0].Rewrote)
	assert.Equal(t, taggedInput, readFile(t, path))
}

func TestRewriter_ProcessFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("keeps permissions", func(t *testing.T) {
		path := filepath.Join(dir, "values", "strings.xml")
		writeFile(t, path, []byte(taggedInput), 0600)

		r := NewRewriter(transform.NewTransformer(transform.DefaultOptions()), 1, false)
		res, err := r.ProcessFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Entries)
		assert.Equal(t, 2, res.Tags)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
		assert.Equal(t, taggedOutput, readFile(t, path))
	})

	t.Run("drops msgid", func(t *testing.T) {
		path := filepath.Join(dir, "values-nb", "strings.xml")
		writeFile(t, path, []byte(taggedInput), 0644)

		r := NewRewriter(transform.NewTransformer(transform.Options{}), 1, false)
		_, err := r.ProcessFile(path)
		require.NoError(t, err)
		assert.Equal(t, `<resources><string name="g">%1$s and %2$s</string></resources>`, readFile(t, path))
	})

	t.Run("missing file", func(t *testing.T) {
		r := NewRewriter(transform.NewTransformer(transform.DefaultOptions()), 1, false)
		_, err := r.ProcessFile(filepath.Join(dir, "missing.xml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRewriter_CancelledContext(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "values", "strings.xml")
	writeFile(t, path, []byte(taggedInput), 0644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRewriter(transform.NewTransformer(transform.DefaultOptions()), 1, false)
	summary := r.Run(ctx, discover(t, root))

	assert.Empty(t, summary.Files)
	assert.Equal(t, taggedInput, readFile(t, path))
}

func TestRewriter_Parallel(t *testing.T) {
	root := t.TempDir()
	locales := []string{"values", "values-de", "values-fi", "values-fr", "values-nb", "values-se", "values-sv"}
	for _, l := range locales {
		writeFile(t, filepath.Join(root, l, "strings.xml"), []byte(taggedInput), 0644)
	}

	r := NewRewriter(transform.NewTransformer(transform.DefaultOptions()), 3, false)
	summary := r.Run(context.Background(), discover(t, root))

	assert.Equal(t, len(locales), summary.Processed)
	for i, l := range locales {
		path := filepath.Join(root, l, "strings.xml")
		assert.Equal(t, path, summary.Files[i].Path)
		assert.Equal(t, taggedOutput, readFile(t, path))
	}
}

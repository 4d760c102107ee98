package rewriter

import (
	"context"
	"fmt"
	"os"

	"strings-rewriter/internal/filewalker"
	"strings-rewriter/internal/parser"
	"strings-rewriter/internal/textutil"
	"strings-rewriter/internal/transform"
	"strings-rewriter/internal/worker"

	"github.com/rs/zerolog/log"
)

// FileResult is the outcome of processing one resource file.
type FileResult struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Rewrote int    `json:"rewritten_entries"`
	Tags    int    `json:"tags"`
	Changed bool   `json:"changed"`
	Written bool   `json:"written"`
	Error   string `json:"error,omitempty"`
}

// Summary aggregates the results of a run, in discovery order.
type Summary struct {
	Files     []FileResult `json:"files"`
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Changed   int          `json:"changed"`
	Tags      int          `json:"tags"`
}

// Rewriter reads, transforms and overwrites resource files.
type Rewriter struct {
	transformer *transform.Transformer
	workers     int
	dryRun      bool
}

// NewRewriter creates a Rewriter. With dryRun set, files are transformed in
// memory but never written.
func NewRewriter(t *transform.Transformer, workers int, dryRun bool) *Rewriter {
	return &Rewriter{
		transformer: t,
		workers:     workers,
		dryRun:      dryRun,
	}
}

// Run processes every entry. A failing file is logged and counted; it never
// stops the run. Files not reached because ctx was cancelled are left out of
// the summary.
func (r *Rewriter) Run(ctx context.Context, entries []filewalker.FileEntry) *Summary {
	pool := worker.NewPool[filewalker.FileEntry, FileResult](r.workers,
		func(ctx context.Context, entry filewalker.FileEntry) (FileResult, error) {
			return r.ProcessFile(entry.Path)
		},
	)

	summary := &Summary{}
	for _, task := range pool.Execute(ctx, entries) {
		if !task.Done {
			continue
		}
		res := task.Result
		res.Path = task.Input.Path
		if task.Err != nil {
			res.Error = task.Err.Error()
			summary.Failed++
			log.Error().Err(task.Err).Str("path", res.Path).Msg("Failed to process file")
		} else {
			summary.Processed++
			summary.Tags += res.Tags
			if res.Changed {
				summary.Changed++
			}
			log.Info().
				Str("path", res.Path).
				Int("entries", res.Entries).
				Int("tags", res.Tags).
				Bool("changed", res.Changed).
				Bool("written", res.Written).
				Msg("Processed file")
		}
		summary.Files = append(summary.Files, res)
	}

	return summary
}

// ProcessFile rewrites a single file in place. The new content is built fully
// in memory before the file is opened for writing.
func (r *Rewriter) ProcessFile(path string) (FileResult, error) {
	res := FileResult{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return res, fmt.Errorf("stat file: %w", err)
	}

	pr, err := parser.ParseFile(path)
	if err != nil {
		return res, err
	}

	out := r.transformer.Reconstruct(pr)
	res.Entries = len(out.Entries)
	res.Tags = out.Tags()
	res.Changed = out.Changed()

	for _, e := range out.Entries {
		if e.Changed {
			res.Rewrote++
		}
		if e.MixedSpecifiers {
			log.Warn().
				Str("path", path).
				Str("entry", textutil.Truncate(e.Name, 40)).
				Msg("Entry mixes placeholder tags with existing format specifiers")
		}
		if e.Tags > 0 {
			log.Debug().Str("path", path).Str("entry", e.Name).Int("tags", e.Tags).Msg("Rewrote entry")
		}
	}

	if r.dryRun {
		return res, nil
	}

	if err := os.WriteFile(path, []byte(out.Text), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("write file: %w", err)
	}
	res.Written = true

	return res, nil
}

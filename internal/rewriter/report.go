package rewriter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Report formats accepted by ExportReport.
const (
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

// ExportReport writes the per-file results of a run to outputPath.
func ExportReport(s *Summary, format, outputPath string) error {
	switch format {
	case FormatJSON:
		return exportJSON(s, outputPath)
	case FormatTSV:
		return exportTSV(s, outputPath)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func exportTSV(s *Summary, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create TSV file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "path\tentries\trewritten_entries\ttags\tchanged\twritten\terror")

	for _, r := range s.Files {
		fmt.Fprintf(f, "%s\t%d\t%d\t%d\t%t\t%t\t%s\n",
			escapeTSV(r.Path),
			r.Entries,
			r.Rewrote,
			r.Tags,
			r.Changed,
			r.Written,
			escapeTSV(r.Error),
		)
	}

	log.Info().Str("path", outputPath).Int("files", len(s.Files)).Msg("Exported report to TSV")
	return nil
}

func exportJSON(s *Summary, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	log.Info().Str("path", outputPath).Int("files", len(s.Files)).Msg("Exported report to JSON")
	return nil
}

// escapeTSV replaces tabs and newlines in a string for TSV safety.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

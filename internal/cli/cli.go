package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"strings-rewriter/internal/config"
	"strings-rewriter/internal/filewalker"
	"strings-rewriter/internal/rewriter"
	"strings-rewriter/internal/transform"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "strings-rewriter",
		Short: "Convert <xliff:g> placeholders in Android string resources to positional format specifiers",
		Long: `Rewrites strings.xml files under values*/ directories in place.
Every <xliff:g> tag inside a <string> entry is replaced by %1$s, %2$s, ...
with numbering restarting for each entry. Everything else in the file is left untouched.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(rewriteCmd())
	rootCmd.AddCommand(scanCmd())

	return rootCmd
}

func rewriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite [base-path]",
		Short: "Rewrite matching string resource files in place",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runRewrite(cmd, args, dryRun)
		},
	}

	addRunFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Transform in memory without writing files")

	return cmd
}

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [base-path]",
		Short: "Report which files and entries would be rewritten, without writing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, args, true)
		},
	}

	addRunFlags(cmd)

	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("prefix", "", "Directory name prefix of eligible directories (default from RES_DIR_PREFIX)")
	cmd.Flags().String("file", "", "Exact file name to rewrite (default from RES_TARGET_FILE)")
	cmd.Flags().Bool("preserve-msgid", true, "Keep msgid attributes on rewritten entries")
	cmd.Flags().Bool("strip-quotes", false, "Remove quotes wrapping the whole rewritten content")
	cmd.Flags().Int("workers", 1, "Number of files processed in parallel")
	cmd.Flags().String("report", "", "Write a per-file report to this path")
	cmd.Flags().String("report-format", rewriter.FormatTSV, "Report format: tsv or json")
}

// loadConfig merges explicitly set flags over the environment configuration.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.Load()

	if len(args) > 0 {
		cfg.BasePath = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("prefix") {
		cfg.DirectoryPrefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("file") {
		cfg.TargetFileName, _ = flags.GetString("file")
	}
	if flags.Changed("preserve-msgid") {
		cfg.PreserveSecondaryIdentifier, _ = flags.GetBool("preserve-msgid")
	}
	if flags.Changed("strip-quotes") {
		cfg.StripRedundantQuotes, _ = flags.GetBool("strip-quotes")
	}
	if flags.Changed("workers") {
		cfg.WorkerCount, _ = flags.GetInt("workers")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, finishing current file...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// runRewrite handles the `rewrite` and `scan` commands.
func runRewrite(cmd *cobra.Command, args []string, dryRun bool) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel)

	reportPath, _ := cmd.Flags().GetString("report")
	reportFormat, _ := cmd.Flags().GetString("report-format")
	if reportPath != "" && reportFormat != rewriter.FormatTSV && reportFormat != rewriter.FormatJSON {
		return fmt.Errorf("unknown report format %q", reportFormat)
	}

	ctx, cancel := setupContext()
	defer cancel()

	log.Info().
		Str("base_path", cfg.BasePath).
		Str("prefix", cfg.DirectoryPrefix).
		Str("file", cfg.TargetFileName).
		Bool("preserve_msgid", cfg.PreserveSecondaryIdentifier).
		Bool("strip_quotes", cfg.StripRedundantQuotes).
		Bool("dry_run", dryRun).
		Msg("Starting rewrite")

	w := filewalker.NewWalker(cfg.DirectoryPrefix, cfg.TargetFileName)
	entries, err := w.Walk(cfg.BasePath)
	if err != nil {
		return fmt.Errorf("walk resource directory: %w", err)
	}

	t := transform.NewTransformer(transform.Options{
		PreserveSecondaryIdentifier: cfg.PreserveSecondaryIdentifier,
		StripRedundantQuotes:        cfg.StripRedundantQuotes,
	})
	summary := rewriter.NewRewriter(t, cfg.WorkerCount, dryRun).Run(ctx, entries)

	if reportPath != "" {
		if err := rewriter.ExportReport(summary, reportFormat, reportPath); err != nil {
			log.Error().Err(err).Str("path", reportPath).Msg("Failed to export report")
		}
	}

	msg := "All string resource files have been updated"
	if dryRun {
		msg = "Scan complete, no files written"
	}
	if ctx.Err() != nil {
		msg = "Rewrite interrupted"
	}

	log.Info().
		Int("files", len(entries)).
		Int("processed", summary.Processed).
		Int("failed", summary.Failed).
		Int("changed", summary.Changed).
		Int("tags", summary.Tags).
		Bool("dry_run", dryRun).
		Msg(msg)

	return nil
}

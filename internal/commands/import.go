package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ingro/internal/config"
	"github.com/cleared-dev/ingro/internal/importer"
	"github.com/cleared-dev/ingro/internal/runlog"
)

// exportDir is the subdirectory statements are written to.
const exportDir = "export"

func newImportCommand(root *rootOptions) *cobra.Command {
	var over overrides
	var repoDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Convert every CSV export waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			cfg, err := root.loadConfig(absDir)
			if err != nil {
				return err
			}
			over.apply(cmd, cfg)
			return runImport(cmd, root.logger(cmd), cfg, absDir)
		},
	}

	over.register(cmd)
	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")

	return cmd
}

func runImport(cmd *cobra.Command, logger *log.Logger, cfg *config.Config, repoRoot string) error {
	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}

	files, err := importer.Scan(repoRoot)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No exports to import.")
		return nil
	}

	var entries []runlog.Entry
	failed := 0
	for _, file := range files {
		flog := logger.With("file", file.Name)
		entry := runlog.Entry{Timestamp: conv.now().UTC().Truncate(time.Second), File: file.Name}

		dst := conv.outputPath(file.Path, filepath.Join(repoRoot, exportDir))
		n, err := conv.convertFile(file.Path, dst)
		if err == nil {
			err = importer.MarkProcessed(repoRoot, file.Name)
		}
		if err != nil {
			flog.Error("import failed", "error", err)
			entry.Status = runlog.StatusFailed
			entry.Error = err.Error()
			entries = append(entries, entry)
			failed++
			continue
		}

		rel, _ := filepath.Rel(repoRoot, dst)
		flog.Debug("imported", "transactions", n, "output", rel)
		entry.Status = runlog.StatusConverted
		entry.Transactions = n
		entry.Output = rel
		entries = append(entries, entry)
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d transactions)\n", file.Name, rel, n)
	}

	if err := runlog.Append(repoRoot, entries); err != nil {
		logger.Warn("failed to write import log", "error", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

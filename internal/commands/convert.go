package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ingro/internal/config"
	"github.com/cleared-dev/ingro/internal/importer"
	"github.com/cleared-dev/ingro/internal/statement"
)

// overrides are the per-run flags that take precedence over ingro.yaml.
type overrides struct {
	account           string
	charset           string
	locale            string
	format            string
	opening           string
	closing           string
	flushUnterminated bool
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.account, "account", "", "account number (IBAN) written into statements")
	cmd.Flags().StringVar(&o.charset, "charset", "", "input charset (default from config, iso-8859-2)")
	cmd.Flags().StringVar(&o.locale, "locale", "", "month-name locale of the export: ro or en")
	cmd.Flags().StringVar(&o.format, "format", "", "output format: ofx or csv")
	cmd.Flags().StringVar(&o.opening, "opening-balance", "", "balance before the first transaction")
	cmd.Flags().StringVar(&o.closing, "closing-balance", "", "balance after the last transaction")
	cmd.Flags().BoolVar(&o.flushUnterminated, "flush-unterminated", false, "emit a final transaction that has no trailer row after it")
}

func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("account") {
		cfg.Account.AccountID = o.account
	}
	if flags.Changed("charset") {
		cfg.Charset = o.charset
	}
	if flags.Changed("locale") {
		cfg.Locale = o.locale
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("opening-balance") || flags.Changed("closing-balance") {
		cfg.Balance = config.BalanceConfig{Opening: o.opening, Closing: o.closing}
	}
	if flags.Changed("flush-unterminated") {
		cfg.FlushUnterminated = o.flushUnterminated
	}
}

// converter turns one bank export into one statement file.
type converter struct {
	parser   importer.Parser
	writer   statement.Writer
	account  statement.Account
	balances statement.Balances
	now      func() time.Time
}

func newConverter(cfg *config.Config, logger *log.Logger) (*converter, error) {
	opts, err := cfg.ImporterOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = logger

	parsers := importer.DefaultRegistry(opts)
	parser := parsers.Get(cfg.Bank)
	if parser == nil {
		return nil, fmt.Errorf("unknown bank %q (available: %s)", cfg.Bank, strings.Join(parsers.Formats(), ", "))
	}

	writers := statement.DefaultRegistry()
	writer := writers.Get(cfg.Format)
	if writer == nil {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", cfg.Format, strings.Join(writers.Formats(), ", "))
	}

	balances, err := cfg.Balances()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Account.AccountID) == "" {
		logger.Warn("no account number configured", "config", config.FileName+" account.account_id", "flag", "--account")
	}

	return &converter{
		parser:   parser,
		writer:   writer,
		account:  cfg.StatementAccount(),
		balances: balances,
		now:      time.Now,
	}, nil
}

// outputPath returns the statement path for src inside dir.
func (c *converter) outputPath(src, dir string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return filepath.Join(dir, base+c.writer.Extension())
}

// convertFile parses src and writes the statement to dst. Nothing is written
// if parsing fails. Returns the number of transactions.
func (c *converter) convertFile(src, dst string) (int, error) {
	if sameFile(src, dst) {
		return 0, fmt.Errorf("output %s would overwrite its input", dst)
	}

	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	txns, err := c.parser.Parse(f)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", filepath.Base(src), err)
	}

	st, err := statement.New(c.account, txns, c.balances, c.now())
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := c.writer.Write(&buf, st); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("writing statement: %w", err)
	}
	return len(txns), nil
}

func newConvertCommand(root *rootOptions) *cobra.Command {
	var over overrides
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert <file.csv>...",
		Short: "Convert bank CSV exports to statements",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := workingDir()
			if err != nil {
				return err
			}
			cfg, err := root.loadConfig(dir)
			if err != nil {
				return err
			}
			over.apply(cmd, cfg)
			return runConvert(cmd, root.logger(cmd), cfg, args, outDir)
		},
	}

	over.register(cmd)
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "directory for statements (default: next to each input)")

	return cmd
}

func runConvert(cmd *cobra.Command, logger *log.Logger, cfg *config.Config, files []string, outDir string) error {
	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}

	failed := 0
	for _, src := range files {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(src)
		}
		dst := conv.outputPath(src, dir)

		n, err := conv.convertFile(src, dst)
		if err != nil {
			logger.Error("conversion failed", "file", src, "error", err)
			failed++
			continue
		}
		logger.Debug("converted", "file", src, "transactions", n)
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d transactions)\n", src, dst, n)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

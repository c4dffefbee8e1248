package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ingro/internal/config"
)

func newInitCommand() *cobra.Command {
	var accountID string
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ingro project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, accountID, currency); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ingro project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account number (IBAN) written into statements")
	cmd.Flags().StringVar(&currency, "currency", "RON", "account currency")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runInit(dir, accountID, currency string) error {
	if strings.TrimSpace(accountID) == "" {
		return errors.New("--account must not be empty")
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	dirs := []string{
		"import",
		filepath.Join("import", "processed"),
		exportDir,
		"logs",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Account.AccountID = accountID
	cfg.Account.Currency = currency
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}
	return nil
}

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ingro/internal/buildinfo"
	"github.com/cleared-dev/ingro/internal/config"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "ingro",
		Short:   "Convert ING Romania CSV statements to OFX",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ingro.yaml in the working or repo directory)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newConvertCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))

	return rootCmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *log.Logger {
	logger := log.New(cmd.ErrOrStderr())
	if o.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig reads --config if given, else dir/ingro.yaml if it exists,
// else returns the defaults.
func (o *rootOptions) loadConfig(dir string) (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func workingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return dir, nil
}

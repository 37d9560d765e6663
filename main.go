package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"library-tracker/internal/config"
	"library-tracker/library"
)

var (
	dataDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "library-tracker",
	Short: "Single-tenant library catalogue and lending tracker",
	Long: `library-tracker manages book inventory, user accounts and loan records,
keeping all state in flat comma-delimited table files. Running it without a
subcommand starts the interactive session.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		cfg := config.LoadFromEnv()
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		logger, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync()

		mgr, err := library.NewLibraryManager(cfg.DataDir, cfg.AdminPassword, logger)
		if err != nil {
			logger.Error("cannot open library data", zap.Error(err))
			return err
		}

		newSession(mgr, logger).run()
		return nil
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	// Logs go to stderr so they never interleave with the menu prompts.
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func init() {
	rootCmd.Flags().StringVar(&dataDir, "data", "", "data directory (overrides LIBRARY_DATA_DIR)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

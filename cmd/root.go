package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/standort-labs/standort-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "standort",
	Short: "Company location desirability scoring",
	Long:  "Scores company locations by combining regional statistics, geospatial lookups, and a fixed rubric; emits a spreadsheet report, one sheet per company.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aditasap/bizscope/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bizscope",
	Short: "Schema-driven business profile scraper",
	Long:  "Extracts business information (contact details, staff, hours) and design elements (brand colors, logo, fonts) from websites, driven by JSON field schemas keyed by business-type profiles.",
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

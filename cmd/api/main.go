package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yigit/notehub/internal/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "notehub",
	Short:         "Note sharing API",
	Long:          `notehub serves the note, rating and profile API and manages its database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/notehub/internal/bootstrap"
	"github.com/yigit/notehub/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default subjects and professors",
	Long:  `Insert the default subjects and professors that are missing. Existing rows are kept.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}

		database, err := bootstrap.SetupDatabase(cmd.Context(), cfg, lgr, false)
		if err != nil {
			return err
		}
		defer database.Close()

		result, err := seed.CreateDefaultData(cmd.Context(), database, lgr)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %d subjects and %d professors\n", result.Subjects, result.Professors)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/notehub/internal/pkg/logger"
	"github.com/yigit/notehub/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Start the HTTP API and block until SIGINT or SIGTERM, then shut down gracefully.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")

		srv, err := server.NewServer(server.Options{ConfigPath: configPath, Migrate: migrate})
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		if err := srv.Run(); err != nil {
			return err
		}

		logger.Info().Msg("Application finished gracefully.")
		return nil
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", true, "apply migrations and default data before serving")
	rootCmd.AddCommand(serveCmd)
}

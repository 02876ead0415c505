package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yigit/notehub/internal/app/migrations"
	"github.com/yigit/notehub/internal/bootstrap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

// withMigrator loads config and opens a migrator for the duration of fn
func withMigrator(fn func(*migrations.Migrator) error) error {
	cfg, _, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	migrator, err := migrations.NewMigrator(cfg.GetMigrationURL())
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(migrator)
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator((*migrations.Migrator).Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Long:  `Roll back every migration. All notes, ratings and profiles are dropped.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if force, _ := cmd.Flags().GetBool("force"); !force {
			return fmt.Errorf("refusing to drop the schema without --force")
		}
		return withMigrator((*migrations.Migrator).Down)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().Bool("force", false, "confirm dropping all data")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

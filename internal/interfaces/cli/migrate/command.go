// Package migrate implements the database migration commands.
package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ngoinfo/grantpilot/internal/infrastructure/config"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/database"
	"github.com/ngoinfo/grantpilot/internal/infrastructure/migration"
	"github.com/ngoinfo/grantpilot/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Run pending migrations or inspect the current schema version.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE:  runStatus,
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer database.Close()

	manager := migration.NewManager(env)
	if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("migrations applied")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer database.Close()

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		return err
	}

	version, dirty, err := migration.Status(database.Get(), scriptsPath)
	if err != nil {
		return err
	}

	fmt.Printf("version: %d dirty: %t\n", version, dirty)
	return nil
}

func setup() error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

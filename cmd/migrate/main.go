package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newMigrator resolves the database URL from --database-url, DATABASE_URL or
// the regular DB_* configuration, in that order. The caller must call the
// returned close function.
func newMigrator(cmd *cobra.Command) (*migrate.Migrate, func(), error) {
	url, _ := cmd.Flags().GetString("database-url")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		url = cfg.DatabaseURL()
	}
	return database.NewMigrator(url)
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closeFn, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("No pending migrations")
				return nil
			}
			return fmt.Errorf("applying migrations: %w", err)
		}
		fmt.Println("All migrations applied successfully")
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}

		m, closeFn, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := m.Steps(-steps); err != nil {
			return fmt.Errorf("rolling back: %w", err)
		}
		fmt.Printf("Rolled back %d migration(s)\n", steps)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closeFn, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading version: %w", err)
		}
		fmt.Printf("Version: %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("database-url", "", "postgres URL, overrides DATABASE_URL and DB_* settings")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	downCmd.Flags().IntP("steps", "n", 1, "Number of migrations to roll back")
	rootCmd.AddCommand(versionCmd)
}

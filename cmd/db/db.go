package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/patentvault/go-anchor-wallet/internal/config"
	"github.com/patentvault/go-anchor-wallet/internal/persistence"
	"github.com/patentvault/go-anchor-wallet/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func New(cfg config.Server) *cobra.Command {
	return command.NewSubcommandGroup("db",
		newMigrate(cfg),
	)
}

func newMigrate(cfg config.Server) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations in lexical order",
		Run: func(cmd *cobra.Command, args []string) {
			applied, err := migrate(cfg, dir)
			if err != nil {
				log.Fatal().Err(err).Msg("Migration failed")
			}
			log.Info().Int("applied", applied).Msg("Migrations applied")
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations", "Directory containing .sql migration files")

	return cmd
}

func migrate(cfg config.Server, dir string) (int, error) {
	db, err := persistence.NewDB(cfg.Database)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		var exists bool
		if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, file).Scan(&exists); err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", file, err)
		}
		if exists {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return applied, err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, file); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, err
		}

		log.Info().Str("file", file).Msg("Applied migration")
		applied++
	}

	return applied, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/repositories"
	"github.com/desertthunder/musicseed/internal/shared"
	"github.com/urfave/cli/v3"
)

// Load migrates the SQLite database, applies a generated script and prints row counts per table.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	input := config.Output.SQLPath
	if cmd.IsSet("input") {
		input = cmd.String("input")
	}
	if input == "" {
		return fmt.Errorf("%w: --input", shared.ErrMissingArgument)
	}

	dbPath := config.Database.Path
	if cmd.IsSet("db") {
		dbPath = cmd.String("db")
	}
	if dbPath == "" {
		return fmt.Errorf("%w: --db", shared.ErrMissingArgument)
	}

	script, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read seed script: %w", err)
	}

	db, err := shared.NewDatabase(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	maxOpen, maxIdle := config.Database.MaxOpenConns, config.Database.MaxIdleConns
	if dbPath == ":memory:" {
		maxOpen, maxIdle = 1, 1
	}
	shared.ConfigureDatabase(db, maxOpen, maxIdle)

	if err := shared.EnableForeignKeys(ctx, db); err != nil {
		return err
	}
	if cmd.Bool("reset") {
		if err := shared.ResetMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
		r.logger.Info("database reset", "db", dbPath)
	}
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Debug("migrations applied", "db", dbPath)

	repo := repositories.NewSeedRepository(db, shared.WithLogger(r.logger, "component", "loader"))
	n, err := repo.Apply(ctx, string(script))
	if err != nil {
		return err
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(counts, true)
	}

	r.writePlainHeader("Database Loaded")
	r.writePlain("Applied %d statements from %s to %s\n\n", n, input, dbPath)
	for _, table := range models.Tables {
		r.writePlain("  %-14s %d\n", table, counts[table])
	}
	return nil
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicseed/internal/exporter"
	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/shared"
)

// SeedRepository loads generated scripts into a migrated SQLite database.
type SeedRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSeedRepository creates a new SeedRepository with the given database connection
func NewSeedRepository(db *sql.DB, logger *log.Logger) *SeedRepository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SeedRepository{db: db, logger: logger}
}

// Apply runs every statement of script inside one transaction and returns how many were executed.
//
// Only scripts exported with the sqlite dialect are accepted; DATETIME2 casts do not survive SQLite's type affinity.
// Every seeded table must be empty, otherwise [shared.ErrDatabaseNotEmpty] is returned.
func (r *SeedRepository) Apply(ctx context.Context, script string) (int, error) {
	dialect, err := exporter.DetectDialect(script)
	if err != nil {
		return 0, err
	}
	if dialect != exporter.SQLite {
		return 0, fmt.Errorf("%w: cannot load %s script into sqlite, regenerate with --dialect sqlite", shared.ErrUnsupportedDialect, dialect)
	}

	statements := shared.SplitStatements(script)
	if len(statements) == 0 {
		return 0, shared.ErrEmptyScript
	}

	// ids are left to AUTOINCREMENT while foreign keys are literal, so rows must start at 1
	counts, err := r.Counts(ctx)
	if err != nil {
		return 0, err
	}
	for _, table := range models.Tables {
		if counts[table] > 0 {
			return 0, fmt.Errorf("%w: %s has %d rows, load with --reset to replace them", shared.ErrDatabaseNotEmpty, table, counts[table])
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to execute statement %d: %w\nStatement: %s", i+1, err, stmt)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	r.logger.Info("seed script applied", "statements", len(statements))
	return len(statements), nil
}

// Counts returns the number of rows in every seeded table.
func (r *SeedRepository) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(models.Tables))
	for _, table := range models.Tables {
		var n int
		if err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/desertthunder/musicseed/internal/exporter"
	"github.com/desertthunder/musicseed/internal/generator"
	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/shared"
	tu "github.com/desertthunder/musicseed/internal/testing"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	ctx := context.Background()
	if err := shared.EnableForeignKeys(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func generateScript(t *testing.T, dialect exporter.Dialect, counts models.Counts) (*models.Dataset, string) {
	t.Helper()

	g := generator.NewGenerator(generator.Opts{
		Fetcher: &tu.MockFetcher{},
		Seed:    7,
		Relations: generator.RelationLimits{
			Enabled:          true,
			PlaylistSongsMax: 15,
			FavoritesMax:     10,
			FollowersMax:     5,
		},
		Hasher: func(pw string, _ int) (string, error) { return "hashed-" + pw, nil },
		Logger: shared.NewLogger(io.Discard),
	})
	ds, err := g.Run(context.Background(), counts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var buf strings.Builder
	if err := exporter.New(dialect, shared.NewLogger(io.Discard)).Write(&buf, ds); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return ds, buf.String()
}

func TestSeedRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Apply Generated Script", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		ds, script := generateScript(t, exporter.SQLite, models.Counts{Artists: 25, Albums: 50, Users: 20, Playlists: 30, Songs: 200})
		repo := NewSeedRepository(db, shared.NewLogger(io.Discard))

		n, err := repo.Apply(ctx, script)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		want := 0
		for _, v := range ds.Totals() {
			want += v
		}
		if n != want {
			t.Errorf("expected %d statements, got %d", want, n)
		}

		counts, err := repo.Counts(ctx)
		if err != nil {
			t.Fatalf("Counts() error = %v", err)
		}
		for table, expected := range ds.Totals() {
			if counts[table] != expected {
				t.Errorf("%s: expected %d rows, got %d", table, expected, counts[table])
			}
		}
	})

	t.Run("Escaped Text Round Trips", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, script := generateScript(t, exporter.SQLite, models.Counts{Artists: 1, Albums: 17, Songs: 10})
		repo := NewSeedRepository(db, shared.NewLogger(io.Discard))
		if _, err := repo.Apply(ctx, script); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		var title string
		if err := db.QueryRowContext(ctx, "SELECT Title FROM Albums WHERE Id = 17").Scan(&title); err != nil {
			t.Fatalf("failed to query album: %v", err)
		}
		if title != "What's Going On" {
			t.Errorf("expected apostrophe to survive, got %q", title)
		}

		var nulls int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Songs WHERE AudioUrl IS NULL").Scan(&nulls); err != nil {
			t.Fatalf("failed to query songs: %v", err)
		}
		if nulls != 10 {
			t.Errorf("expected 10 songs with NULL audio url, got %d", nulls)
		}
	})

	t.Run("Refuses MSSQL Script", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, script := generateScript(t, exporter.MSSQL, models.Counts{Artists: 1})
		_, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Apply(ctx, script)
		if !errors.Is(err, shared.ErrUnsupportedDialect) {
			t.Errorf("expected ErrUnsupportedDialect, got %v", err)
		}
	})

	t.Run("Refuses Script Without Header", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Apply(ctx, "INSERT INTO Roles (Name) VALUES ('x');")
		if !errors.Is(err, shared.ErrUnsupportedDialect) {
			t.Errorf("expected ErrUnsupportedDialect, got %v", err)
		}
	})

	t.Run("Empty Script", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Apply(ctx, "-- Dialect: sqlite\n")
		if !errors.Is(err, shared.ErrEmptyScript) {
			t.Errorf("expected ErrEmptyScript, got %v", err)
		}
	})

	t.Run("Failed Statement Rolls Back", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		script := "-- Dialect: sqlite\n" +
			"INSERT INTO Roles (Name, Description) VALUES ('Admin', 'a');\n" +
			"INSERT INTO UserRoles (UserId, RoleId) VALUES (99, 1);\n"
		repo := NewSeedRepository(db, shared.NewLogger(io.Discard))

		if _, err := repo.Apply(ctx, script); err == nil {
			t.Fatal("expected foreign key failure")
		}

		counts, err := repo.Counts(ctx)
		if err != nil {
			t.Fatalf("Counts() error = %v", err)
		}
		if counts[models.TableRoles] != 0 {
			t.Errorf("expected rollback to discard roles, got %d", counts[models.TableRoles])
		}
	})

	t.Run("Refuses Database With Rows", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		counts := models.Counts{Artists: 3, Albums: 4}
		_, script := generateScript(t, exporter.SQLite, counts)
		repo := NewSeedRepository(db, shared.NewLogger(io.Discard))

		if _, err := repo.Apply(ctx, script); err != nil {
			t.Fatalf("first Apply() error = %v", err)
		}

		_, err := repo.Apply(ctx, script)
		if !errors.Is(err, shared.ErrDatabaseNotEmpty) {
			t.Fatalf("expected ErrDatabaseNotEmpty, got %v", err)
		}
		if !strings.Contains(err.Error(), "--reset") {
			t.Errorf("expected error to mention --reset, got %v", err)
		}

		rows, err := repo.Counts(ctx)
		if err != nil {
			t.Fatalf("Counts() error = %v", err)
		}
		if rows[models.TableArtists] != 3 || rows[models.TableAlbums] != 4 {
			t.Errorf("expected first load untouched, got %v", rows)
		}
	})

	t.Run("Counts Without Schema", func(t *testing.T) {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Counts(ctx); err == nil {
			t.Error("expected error when tables are missing")
		}
	})
}

func TestSeedRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	script := "-- Dialect: sqlite\nINSERT INTO Roles (Name, Description) VALUES ('Admin', 'a');\n"
	stmt := regexp.QuoteMeta("INSERT INTO Roles (Name, Description) VALUES ('Admin', 'a')")

	newMock := func(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
		t.Helper()
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return db, mock
	}

	expectEmpty := func(mock sqlmock.Sqlmock) {
		for _, table := range models.Tables {
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM " + table)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		}
	}

	t.Run("Begin", func(t *testing.T) {
		db, mock := newMock(t)
		expectEmpty(mock)
		mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

		if _, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Apply(ctx, script); err == nil {
			t.Fatal("expected begin error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("Exec", func(t *testing.T) {
		db, mock := newMock(t)
		expectEmpty(mock)
		mock.ExpectBegin()
		mock.ExpectExec(stmt).WillReturnError(errors.New("constraint failed"))
		mock.ExpectRollback()

		if _, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Apply(ctx, script); err == nil {
			t.Fatal("expected exec error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("Commit", func(t *testing.T) {
		db, mock := newMock(t)
		expectEmpty(mock)
		mock.ExpectBegin()
		mock.ExpectExec(stmt).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("disk I/O error"))

		_, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Apply(ctx, script)
		if err == nil || !strings.Contains(err.Error(), "commit") {
			t.Fatalf("expected commit error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("Counts Query", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM Artists")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM Albums")).
			WillReturnError(errors.New("no such table: Albums"))

		_, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Counts(ctx)
		if err == nil || !strings.Contains(err.Error(), "Albums") {
			t.Fatalf("expected Albums count error, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		db, _ := newMock(t)
		cctx, cancel := context.WithTimeout(ctx, time.Nanosecond)
		defer cancel()
		<-cctx.Done()

		if _, err := NewSeedRepository(db, shared.NewLogger(io.Discard)).Apply(cctx, script); err == nil {
			t.Error("expected error for expired context")
		}
	})
}

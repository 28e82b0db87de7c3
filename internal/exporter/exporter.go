// Package exporter serializes a generated dataset into a SQL script of INSERT statements.
//
// One statement is written per record, grouped into commented sections in foreign key order.
// Text values are single-quoted with embedded quotes doubled, absent values are the bare NULL keyword
// and timestamps follow the selected [Dialect].
package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/shared"
)

// Dialect selects how timestamp literals are written.
type Dialect string

const (
	MSSQL  Dialect = "mssql"  // CAST('..' AS DATETIME2)
	SQLite Dialect = "sqlite" // bare '..' literal
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dialectHeader   = "-- Dialect: "
)

// ParseDialect validates a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case MSSQL, SQLite:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedDialect, s)
	}
}

// DetectDialect reads the dialect header written by [Exporter.Write].
func DetectDialect(script string) (Dialect, error) {
	for line := range strings.Lines(script) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--") {
			if line == "" {
				continue
			}
			break
		}
		if name, ok := strings.CutPrefix(line, dialectHeader); ok {
			return ParseDialect(name)
		}
	}
	return "", fmt.Errorf("%w: script has no dialect header", shared.ErrUnsupportedDialect)
}

// Exporter writes INSERT scripts for one dialect.
type Exporter struct {
	dialect Dialect
	logger  *log.Logger
}

// New creates an exporter. An empty dialect defaults to [MSSQL].
func New(dialect Dialect, logger *log.Logger) *Exporter {
	if dialect == "" {
		dialect = MSSQL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Exporter{dialect: dialect, logger: logger}
}

// Dialect returns the dialect the exporter writes.
func (e *Exporter) Dialect() Dialect {
	return e.dialect
}

// WriteFile writes the script to path, creating the parent directory.
func (e *Exporter) WriteFile(path string, ds *models.Dataset) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sql file: %w", err)
	}

	if err := e.Write(f, ds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close sql file: %w", err)
	}

	e.logger.Info("sql script written", "path", path, "dialect", e.dialect)
	return nil
}

// Write emits the full script for ds.
func (e *Exporter) Write(w io.Writer, ds *models.Dataset) error {
	sw := &scriptWriter{w: bufio.NewWriter(w), dialect: e.dialect}

	sw.line("-- Generated SQL INSERT statements for Music App")
	sw.line("-- Run these after your database is created")
	sw.line(dialectHeader + string(e.dialect))

	sw.section(models.TableArtists)
	for _, a := range ds.Artists {
		sw.insert(models.TableArtists,
			"Name, Bio, ImageUrl, Country, Genre, FormedDate, MonthlyListeners, IsActive, CreatedAt, UpdatedAt",
			text(a.Name), text(a.Bio), optional(a.ImageURL), text(a.Country), text(a.Genre),
			sw.ts(a.FormedDate), num(a.MonthlyListeners), flag(a.IsActive), sw.ts(a.CreatedAt), sw.ts(a.UpdatedAt),
		)
	}

	sw.section(models.TableAlbums)
	for _, a := range ds.Albums {
		sw.insert(models.TableAlbums,
			"Title, ArtistId, CoverImageUrl, Year, Description, Genre, ReleaseDate, TotalTracks, Duration, CreatedAt, UpdatedAt",
			text(a.Title), num(a.ArtistID), optional(a.CoverImageURL), num(a.Year), text(a.Description), text(a.Genre),
			sw.ts(a.ReleaseDate), num(a.TotalTracks), text(a.Duration), sw.ts(a.CreatedAt), sw.ts(a.UpdatedAt),
		)
	}

	sw.section(models.TableSongs)
	for _, s := range ds.Songs {
		sw.insert(models.TableSongs,
			"Title, ArtistId, AlbumId, Duration, AudioUrl, CoverImageUrl, TrackNumber, Genre, ReleaseDate, PlayCount, CreatedAt, UpdatedAt",
			text(s.Title), num(s.ArtistID), num(s.AlbumID), text(s.Duration), optional(s.AudioURL), optional(s.CoverImageURL),
			num(s.TrackNumber), text(s.Genre), sw.ts(s.ReleaseDate), num(s.PlayCount), sw.ts(s.CreatedAt), sw.ts(s.UpdatedAt),
		)
	}

	sw.section(models.TableUsers)
	for _, u := range ds.Users {
		sw.insert(models.TableUsers,
			"Username, Email, FirstName, LastName, PasswordHash, ProfileImageUrl, CreatedAt, UpdatedAt, LastLoginAt",
			text(u.Username), text(u.Email), text(u.FirstName), text(u.LastName), text(u.PasswordHash),
			optional(u.ProfileImageURL), sw.ts(u.CreatedAt), sw.ts(u.UpdatedAt), sw.ts(u.LastLoginAt),
		)
	}

	sw.section(models.TablePlaylists)
	for _, p := range ds.Playlists {
		sw.insert(models.TablePlaylists,
			"Name, Description, UserId, CoverImageUrl, IsPublic, CreatedAt, UpdatedAt",
			text(p.Name), text(p.Description), num(p.UserID), optional(p.CoverImageURL), flag(p.IsPublic),
			sw.ts(p.CreatedAt), sw.ts(p.UpdatedAt),
		)
	}

	sw.section(models.TableRoles)
	for _, r := range ds.Roles {
		sw.insert(models.TableRoles, "Name, Description", text(r.Name), text(r.Description))
	}

	sw.section(models.TableUserRoles)
	for _, ur := range ds.UserRoles {
		sw.insert(models.TableUserRoles, "UserId, RoleId", num(ur.UserID), num(ur.RoleID))
	}

	sw.section(models.TableSongArtists)
	for _, sa := range ds.SongArtists {
		sw.insert(models.TableSongArtists, "SongId, ArtistId, IsPrimaryArtist, CreatedAt",
			num(sa.SongID), num(sa.ArtistID), flag(sa.IsPrimaryArtist), sw.ts(sa.CreatedAt))
	}

	sw.section(models.TablePlaylistSongs)
	for _, ps := range ds.PlaylistSongs {
		sw.insert(models.TablePlaylistSongs, "PlaylistId, SongId, [Order], AddedAt",
			num(ps.PlaylistID), num(ps.SongID), num(ps.Order), sw.ts(ps.AddedAt))
	}

	sw.section(models.TableUserFavorites)
	for _, f := range ds.UserFavorites {
		sw.insert(models.TableUserFavorites, "UserId, SongId, AddedAt",
			num(f.UserID), num(f.SongID), sw.ts(f.AddedAt))
	}

	sw.section(models.TableUserFollowers)
	for _, f := range ds.UserFollowers {
		sw.insert(models.TableUserFollowers, "UserId, FollowerId, FollowedAt",
			num(f.UserID), num(f.FollowerID), sw.ts(f.FollowedAt))
	}

	if sw.err != nil {
		return fmt.Errorf("failed to write sql: %w", sw.err)
	}
	if err := sw.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush sql: %w", err)
	}
	return nil
}

// scriptWriter keeps the first write error so callers check once at the end.
type scriptWriter struct {
	w       *bufio.Writer
	dialect Dialect
	err     error
}

func (s *scriptWriter) line(text string) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.WriteString(text + "\n")
}

func (s *scriptWriter) section(table string) {
	s.line("")
	s.line("-- Insert " + table)
}

func (s *scriptWriter) insert(table, columns string, values ...string) {
	s.line(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", table, columns, strings.Join(values, ", ")))
}

func (s *scriptWriter) ts(t time.Time) string {
	lit := shared.QuoteSQL(t.Format(timestampLayout))
	if s.dialect == MSSQL {
		return "CAST(" + lit + " AS DATETIME2)"
	}
	return lit
}

func text(s string) string {
	return shared.QuoteSQL(s)
}

// optional renders an empty string as NULL.
func optional(s string) string {
	if s == "" {
		return "NULL"
	}
	return shared.QuoteSQL(s)
}

func num(n int) string {
	return strconv.Itoa(n)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

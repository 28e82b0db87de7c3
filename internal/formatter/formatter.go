// package formatter renders run results as a plain text summary and a JSON manifest
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/shared"
)

// Paths locates the files produced by a run.
type Paths struct {
	UploadsDir   string
	SQLPath      string
	ManifestPath string
}

// Summary lists generated record counts followed by output locations.
func Summary(ds *models.Dataset, paths Paths) string {
	var buf bytes.Buffer

	buf.WriteString("Generated:\n")
	for _, table := range []string{models.TableArtists, models.TableAlbums, models.TableSongs, models.TableUsers, models.TablePlaylists} {
		buf.WriteString(fmt.Sprintf("  - %d %s\n", ds.Totals()[table], table))
	}

	if links := linkRows(ds); links > 0 {
		buf.WriteString(fmt.Sprintf("  - %d link rows (roles, credits, playlist songs, favorites, followers)\n", links))
	}

	if missing := ds.MissingImageTotal(); missing > 0 {
		buf.WriteString(fmt.Sprintf("\nMissing images: %d\n", missing))
		categories := make([]string, 0, len(ds.MissingImages))
		for c := range ds.MissingImages {
			categories = append(categories, c)
		}
		slices.Sort(categories)
		for _, c := range categories {
			buf.WriteString(fmt.Sprintf("  - %s: %d\n", c, ds.MissingImages[c]))
		}
	}

	if paths.UploadsDir != "" {
		buf.WriteString(fmt.Sprintf("\nImages saved to: %s\n", paths.UploadsDir))
	}
	if paths.SQLPath != "" {
		buf.WriteString(fmt.Sprintf("SQL file saved to: %s\n", paths.SQLPath))
	}
	if paths.ManifestPath != "" {
		buf.WriteString(fmt.Sprintf("Manifest saved to: %s\n", paths.ManifestPath))
	}

	return buf.String()
}

func linkRows(ds *models.Dataset) int {
	return len(ds.Roles) + len(ds.UserRoles) + len(ds.SongArtists) +
		len(ds.PlaylistSongs) + len(ds.UserFavorites) + len(ds.UserFollowers)
}

// Manifest describes one generation run.
type Manifest struct {
	RunID         string         `json:"run_id"`
	Seed          uint64         `json:"seed"`
	Dialect       string         `json:"dialect"`
	SQLPath       string         `json:"sql_path"`
	UploadsDir    string         `json:"uploads_dir"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	DurationMS    int64          `json:"duration_ms"`
	Counts        map[string]int `json:"counts"`
	SongSeconds   int            `json:"song_seconds"`
	MissingImages map[string]int `json:"missing_images"`
	Interrupted   bool           `json:"interrupted"`
}

// ManifestOpts carries run metadata not held by the dataset.
type ManifestOpts struct {
	RunID       string
	Seed        uint64
	Dialect     string
	Paths       Paths
	StartedAt   time.Time
	FinishedAt  time.Time
	Interrupted bool
}

// NewManifest snapshots ds and the run metadata.
func NewManifest(ds *models.Dataset, opts ManifestOpts) *Manifest {
	missing := make(map[string]int, len(ds.MissingImages))
	for k, v := range ds.MissingImages {
		missing[k] = v
	}

	return &Manifest{
		RunID:         opts.RunID,
		Seed:          opts.Seed,
		Dialect:       opts.Dialect,
		SQLPath:       opts.Paths.SQLPath,
		UploadsDir:    opts.Paths.UploadsDir,
		StartedAt:     opts.StartedAt,
		FinishedAt:    opts.FinishedAt,
		DurationMS:    opts.FinishedAt.Sub(opts.StartedAt).Milliseconds(),
		Counts:        ds.Totals(),
		SongSeconds:   songSeconds(ds),
		MissingImages: missing,
		Interrupted:   opts.Interrupted,
	}
}

// songSeconds sums the playtime of every song. Malformed durations count as zero.
func songSeconds(ds *models.Dataset) int {
	total := 0
	for _, s := range ds.Songs {
		if n, err := shared.ParseClock(s.Duration); err == nil {
			total += n
		}
	}
	return total
}

// WriteManifest writes m as indented JSON, creating the parent directory.
func WriteManifest(path string, m *Manifest) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

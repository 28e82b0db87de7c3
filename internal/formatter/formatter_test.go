package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/musicseed/internal/models"
	tu "github.com/desertthunder/musicseed/internal/testing"
)

func testDataset() *models.Dataset {
	ds := models.NewDataset()
	ds.Artists = make([]models.Artist, 25)
	ds.Albums = make([]models.Album, 50)
	ds.Songs = make([]models.Song, 200)
	ds.Users = make([]models.User, 20)
	ds.Playlists = make([]models.Playlist, 30)
	return ds
}

func TestSummary(t *testing.T) {
	t.Run("Counts And Paths", func(t *testing.T) {
		out := Summary(testDataset(), Paths{UploadsDir: "uploads", SQLPath: "generated_data/insert_data.sql"})

		for _, want := range []string{
			"Generated:\n",
			"  - 25 Artists\n",
			"  - 50 Albums\n",
			"  - 200 Songs\n",
			"  - 20 Users\n",
			"  - 30 Playlists\n",
			"Images saved to: uploads\n",
			"SQL file saved to: generated_data/insert_data.sql\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("summary missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Missing images") {
			t.Error("no missing images section expected")
		}
		if strings.Contains(out, "Manifest saved") {
			t.Error("no manifest line expected")
		}
	})

	t.Run("Catalog Listed Before Accounts", func(t *testing.T) {
		out := Summary(testDataset(), Paths{})
		if strings.Index(out, "Songs") > strings.Index(out, "Users") {
			t.Error("songs should be listed before users")
		}
	})

	t.Run("Missing Images And Links", func(t *testing.T) {
		ds := testDataset()
		ds.MissingImages["songs"] = 3
		ds.MissingImages["artists"] = 1
		ds.SongArtists = make([]models.SongArtist, 4)

		out := Summary(ds, Paths{ManifestPath: "run.json"})
		if !strings.Contains(out, "Missing images: 4\n  - artists: 1\n  - songs: 3\n") {
			t.Errorf("unexpected missing images section:\n%s", out)
		}
		if !strings.Contains(out, "  - 4 link rows") {
			t.Errorf("expected link rows line:\n%s", out)
		}
		if !strings.Contains(out, "Manifest saved to: run.json") {
			t.Error("expected manifest line")
		}
	})
}

func TestManifest(t *testing.T) {
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ds := testDataset()
	ds.MissingImages["albums"] = 2

	m := NewManifest(ds, ManifestOpts{
		RunID:      "run-1",
		Seed:       99,
		Dialect:    "sqlite",
		Paths:      Paths{UploadsDir: "uploads", SQLPath: "out.sql"},
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	})

	t.Run("NewManifest", func(t *testing.T) {
		if m.DurationMS != 1500 {
			t.Errorf("expected 1500ms, got %d", m.DurationMS)
		}
		if m.Counts[models.TableSongs] != 200 {
			t.Errorf("expected 200 songs, got %d", m.Counts[models.TableSongs])
		}
		ds.MissingImages["albums"] = 10
		if m.MissingImages["albums"] != 2 {
			t.Error("manifest should not share the dataset's map")
		}
	})

	t.Run("Song Seconds", func(t *testing.T) {
		ds := models.NewDataset()
		ds.Songs = []models.Song{{Duration: "00:03:30"}, {Duration: "00:02:05"}, {Duration: "bad"}}

		if got := NewManifest(ds, ManifestOpts{}).SongSeconds; got != 335 {
			t.Errorf("expected 335 seconds, got %d", got)
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports", "manifest.json")
		if err := WriteManifest(path, m); err != nil {
			t.Fatalf("WriteManifest() error = %v", err)
		}
		tu.AssertFileExists(t, path)

		var decoded map[string]any
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, path)), &decoded); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		for _, key := range []string{"run_id", "seed", "dialect", "sql_path", "uploads_dir", "counts", "missing_images", "interrupted", "duration_ms", "song_seconds"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("manifest missing key %q", key)
			}
		}
		if decoded["run_id"] != "run-1" {
			t.Errorf("unexpected run id %v", decoded["run_id"])
		}
	})

	t.Run("WriteManifest Unwritable", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write blocker: %v", err)
		}
		if err := WriteManifest(filepath.Join(blocker, "manifest.json"), m); err == nil {
			t.Error("expected error when parent is a file")
		}
	})
}

package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/musicseed/internal/shared"
	tu "github.com/desertthunder/musicseed/internal/testing"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 'f', 'a', 'k', 'e'}

func newTestClient(t *testing.T, baseURL string, client *http.Client) (*Client, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	c := NewClient(ClientOpts{
		BaseURL:    baseURL,
		UploadsDir: dir,
		MinID:      1,
		MaxID:      1084,
		Timeout:    2 * time.Second,
		HTTPClient: client,
		Logger:     shared.NewLogger(io.Discard),
		Rand:       rand.New(rand.NewPCG(1, 1)),
	})
	if err := c.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	return c, dir
}

func TestEnsureDirs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	c := NewClient(ClientOpts{UploadsDir: dir, Logger: shared.NewLogger(io.Discard)})

	if err := c.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	for _, category := range Categories {
		tu.AssertDirExists(t, filepath.Join(dir, category))
	}

	if err := c.EnsureDirs(); err != nil {
		t.Errorf("EnsureDirs() should be idempotent, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(jpegBytes)
		}))
		defer server.Close()

		c, dir := newTestClient(t, server.URL, server.Client())

		rel, err := c.Download(context.Background(), Artists, 600, 600)
		if err != nil {
			t.Fatalf("Download() error = %v", err)
		}

		if !strings.HasPrefix(rel, "artists/") || !strings.HasSuffix(rel, ".jpg") {
			t.Errorf("unexpected relative path %q", rel)
		}
		if name := strings.TrimSuffix(strings.TrimPrefix(rel, "artists/"), ".jpg"); len(name) != 36 {
			t.Errorf("expected UUID file name, got %q", name)
		}

		stored := tu.MustReadFile(t, filepath.Join(dir, filepath.FromSlash(rel)))
		if !bytes.Equal([]byte(stored), jpegBytes) {
			t.Errorf("stored file content mismatch")
		}

		var id, w, h int
		if _, err := fmt.Sscanf(gotPath, "/id/%d/%d/%d", &id, &w, &h); err != nil {
			t.Fatalf("unexpected request path %q: %v", gotPath, err)
		}
		if id < 1 || id > 1084 {
			t.Errorf("image id %d outside 1..1084", id)
		}
		if w != 600 || h != 600 {
			t.Errorf("expected 600x600, got %dx%d", w, h)
		}
	})

	t.Run("Non-2xx Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		c, dir := newTestClient(t, server.URL, server.Client())

		_, err := c.Download(context.Background(), Albums, 600, 600)
		if !errors.Is(err, shared.ErrImageDownload) {
			t.Errorf("expected ErrImageDownload, got %v", err)
		}
		if n := tu.CountFiles(t, filepath.Join(dir, Albums)); n != 0 {
			t.Errorf("expected no file on failure, found %d", n)
		}
	})

	t.Run("Transport Error", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("connection refused"))
		c, _ := newTestClient(t, "http://picsum.invalid", &http.Client{Transport: rt})

		_, err := c.Download(context.Background(), Songs, 600, 600)
		if !errors.Is(err, shared.ErrImageDownload) {
			t.Errorf("expected ErrImageDownload, got %v", err)
		}
		if len(rt.Requests()) != 1 {
			t.Errorf("expected 1 request, got %d", len(rt.Requests()))
		}
	})

	t.Run("Body Read Error Removes Partial File", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		c, dir := newTestClient(t, "http://picsum.invalid", &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)})

		_, err := c.Download(context.Background(), Playlists, 600, 600)
		if !errors.Is(err, shared.ErrImageDownload) {
			t.Errorf("expected ErrImageDownload, got %v", err)
		}
		if n := tu.CountFiles(t, filepath.Join(dir, Playlists)); n != 0 {
			t.Errorf("expected partial file to be removed, found %d", n)
		}
	})

	t.Run("Unknown Category", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(tu.NewImageResponse(jpegBytes), nil)
		c, _ := newTestClient(t, "http://picsum.invalid", &http.Client{Transport: rt})

		_, err := c.Download(context.Background(), "covers", 600, 600)
		if !errors.Is(err, shared.ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
		if len(rt.Requests()) != 0 {
			t.Error("unknown category should not hit the network")
		}
	})

	t.Run("Malformed Base URL", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(tu.NewImageResponse(jpegBytes), nil)
		c, _ := newTestClient(t, "http://[::1", &http.Client{Transport: rt})

		_, err := c.Download(context.Background(), Artists, 600, 600)
		if !errors.Is(err, shared.ErrImageDownload) {
			t.Errorf("expected ErrImageDownload, got %v", err)
		}
		var urlErr *url.Error
		if !errors.As(err, &urlErr) {
			t.Errorf("expected wrapped *url.Error, got %T: %v", err, err)
		}
		if len(rt.Requests()) != 0 {
			t.Error("malformed URL should not hit the network")
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		c := NewClient(ClientOpts{
			BaseURL:    server.URL,
			UploadsDir: t.TempDir(),
			Timeout:    50 * time.Millisecond,
			HTTPClient: server.Client(),
			Logger:     shared.NewLogger(io.Discard),
		})
		if err := c.EnsureDirs(); err != nil {
			t.Fatalf("EnsureDirs() error = %v", err)
		}

		if _, err := c.Download(context.Background(), Profiles, 400, 400); !errors.Is(err, shared.ErrImageDownload) {
			t.Errorf("expected ErrImageDownload on timeout, got %v", err)
		}
	})
}

func TestFetch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(tu.NewImageResponse(jpegBytes), nil)
		c, dir := newTestClient(t, "http://picsum.invalid", &http.Client{Transport: rt})

		rel, ok := c.Fetch(context.Background(), Profiles, 400, 400)
		if !ok {
			t.Fatal("expected Fetch to succeed")
		}
		tu.AssertFileExists(t, filepath.Join(dir, filepath.FromSlash(rel)))

		if got := rt.Requests()[0].URL.Path; !strings.HasSuffix(got, "/400/400") {
			t.Errorf("expected profile size in path, got %s", got)
		}
	})

	t.Run("Failure Logs Warning", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewClient(ClientOpts{
			BaseURL:    "http://picsum.invalid",
			UploadsDir: t.TempDir(),
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dns failure"))},
			Logger:     shared.NewLogger(&buf),
		})

		rel, ok := c.Fetch(context.Background(), Artists, 600, 600)
		if ok || rel != "" {
			t.Errorf("Fetch() = (%q, %v), want (\"\", false)", rel, ok)
		}
		if !strings.Contains(buf.String(), "image download failed") {
			t.Errorf("expected warning in log, got %q", buf.String())
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		rel, ok := Disabled{}.Fetch(context.Background(), Artists, 600, 600)
		if ok || rel != "" {
			t.Errorf("Disabled.Fetch() = (%q, %v), want (\"\", false)", rel, ok)
		}
	})
}

func TestPublicPath(t *testing.T) {
	if got := PublicPath("artists/x.jpg"); got != "/uploads/artists/x.jpg" {
		t.Errorf("PublicPath() = %q", got)
	}
	if got := PublicPath(""); got != "" {
		t.Errorf("PublicPath(\"\") = %q, want empty", got)
	}
}

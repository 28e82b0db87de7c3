// Package images downloads placeholder pictures from a picsum-style image service into the uploads tree.
//
// Files are stored as {uploads}/{category}/{uuid}.jpg. A failed download never aborts generation:
// [Client.Fetch] logs a warning and reports the image as absent.
package images

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicseed/internal/shared"
	"github.com/google/uuid"
)

// Image categories, one directory each under the uploads root.
const (
	Profiles  = "profiles"
	Artists   = "artists"
	Albums    = "albums"
	Songs     = "songs"
	Playlists = "playlists"
)

// Categories lists every known image category.
var Categories = []string{Profiles, Artists, Albums, Songs, Playlists}

// PublicPrefix is prepended to stored paths when a record references an image.
const PublicPrefix = "/uploads/"

// PublicPath turns a path returned by Fetch into the URL path stored on a record.
func PublicPath(rel string) string {
	if rel == "" {
		return ""
	}
	return PublicPrefix + rel
}

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string        // Image service root (default: https://picsum.photos)
	UploadsDir string        // Uploads root (default: uploads)
	MinID      int           // Smallest picsum image id
	MaxID      int           // Largest picsum image id
	Timeout    time.Duration // Per-request timeout (default: 10s)
	HTTPClient *http.Client
	Logger     *log.Logger
	Rand       *rand.Rand // Source for image ids; nil uses the global source
}

// Client downloads images from the placeholder service.
type Client struct {
	baseURL    string
	uploadsDir string
	minID      int
	maxID      int
	timeout    time.Duration
	httpClient *http.Client
	logger     *log.Logger
	rng        *rand.Rand
}

// NewClient creates a new image client, filling unset options with defaults.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://picsum.photos"
	}
	if opts.UploadsDir == "" {
		opts.UploadsDir = "uploads"
	}
	if opts.MinID <= 0 {
		opts.MinID = 1
	}
	if opts.MaxID < opts.MinID {
		opts.MaxID = 1084
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		uploadsDir: opts.UploadsDir,
		minID:      opts.MinID,
		maxID:      opts.MaxID,
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		rng:        opts.Rand,
	}
}

// UploadsDir returns the uploads root the client writes into.
func (c *Client) UploadsDir() string {
	return c.uploadsDir
}

// EnsureDirs creates the uploads root and one subdirectory per category.
func (c *Client) EnsureDirs() error {
	for _, category := range Categories {
		dir := filepath.Join(c.uploadsDir, category)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return nil
}

// Download fetches one random image and writes it under the category directory.
//
// Returns the path relative to the uploads root, e.g. "artists/<uuid>.jpg".
func (c *Client) Download(ctx context.Context, category string, width, height int) (string, error) {
	if !slices.Contains(Categories, category) {
		return "", fmt.Errorf("%w: %q", shared.ErrUnknownCategory, category)
	}

	url := fmt.Sprintf("%s/id/%d/%d/%d", c.baseURL, c.imageID(), width, height)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", shared.ErrImageDownload, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", shared.ErrImageDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned status %d", shared.ErrImageDownload, url, resp.StatusCode)
	}

	name := uuid.NewString() + ".jpg"
	dest := filepath.Join(c.uploadsDir, category, name)

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create file: %w", shared.ErrImageDownload, err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("%w: failed to write image: %w", shared.ErrImageDownload, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("%w: failed to close image: %w", shared.ErrImageDownload, err)
	}

	return path.Join(category, name), nil
}

// Fetch is Download with failures downgraded to a warning.
func (c *Client) Fetch(ctx context.Context, category string, width, height int) (string, bool) {
	rel, err := c.Download(ctx, category, width, height)
	if err != nil {
		c.logger.Warn("image download failed", "category", category, "error", err)
		return "", false
	}
	c.logger.Debug("image stored", "path", rel)
	return rel, true
}

func (c *Client) imageID() int {
	span := c.maxID - c.minID + 1
	if c.rng != nil {
		return c.minID + c.rng.IntN(span)
	}
	return c.minID + rand.IntN(span)
}

// Disabled is a fetcher that never touches the network and reports every image as absent.
type Disabled struct{}

func (Disabled) Fetch(context.Context, string, int, int) (string, bool) {
	return "", false
}

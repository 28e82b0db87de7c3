// package generator builds a synthetic music catalog in memory.
//
// The core abstraction is [Generator], which runs the stages artists, albums, users, playlists, songs and relations
// in that order. Later stages draw foreign keys from the collections produced by earlier ones.
// Each stage is throttled per record and emits progress updates via a channel for non-blocking status reporting.
package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicseed/internal/images"
	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/shared"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// ImageFetcher downloads one placeholder image and returns its path relative to the uploads root.
//
// A false result means the record is stored without an image.
type ImageFetcher interface {
	Fetch(ctx context.Context, category string, width, height int) (string, bool)
}

// dirMaker is implemented by fetchers that own an uploads tree.
type dirMaker interface {
	EnsureDirs() error
}

// PasswordHasher turns a plain password into a stored hash.
type PasswordHasher func(password string, cost int) (string, error)

// BcryptHasher hashes with [bcrypt.GenerateFromPassword].
func BcryptHasher(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Delays holds the pause between two records of the same stage. Zero disables throttling.
type Delays struct {
	Artists   time.Duration
	Albums    time.Duration
	Users     time.Duration
	Playlists time.Duration
	Songs     time.Duration
}

// DefaultDelays matches the pacing used against the public picsum service.
func DefaultDelays() Delays {
	return Delays{
		Artists:   100 * time.Millisecond,
		Albums:    50 * time.Millisecond,
		Users:     50 * time.Millisecond,
		Playlists: 50 * time.Millisecond,
		Songs:     20 * time.Millisecond,
	}
}

// RelationLimits bounds the link rows generated after songs.
type RelationLimits struct {
	Enabled          bool
	PlaylistSongsMax int // Songs per playlist
	FavoritesMax     int // Favorite songs per user
	FollowersMax     int // Followers per user
}

// Opts configures a [Generator].
type Opts struct {
	Fetcher       ImageFetcher // nil disables images
	Seed          uint64
	Now           func() time.Time // Clock (default: time.Now)
	Delays        Delays
	Relations     RelationLimits
	Password      string // Plain password shared by all generated users (default: User@123)
	BcryptCost    int    // Default: bcrypt.DefaultCost
	EmailDomain   string // Default: example.com
	Hasher        PasswordHasher
	ImageWidth    int // Default: 600
	ImageHeight   int // Default: 600
	ProfileWidth  int // Default: 400
	ProfileHeight int // Default: 400
	Logger        *log.Logger
	Progress      chan<- ProgressUpdate // Optional
}

// Generator owns the dataset of one run along with the random source, clock and fetcher that shape it.
type Generator struct {
	ds       *models.Dataset
	rng      *rand.Rand
	now      func() time.Time
	fetcher  ImageFetcher
	delays   Delays
	limits   RelationLimits
	password string
	cost     int
	domain   string
	hasher   PasswordHasher
	imageW   int
	imageH   int
	profileW int
	profileH int
	logger   *log.Logger
	progress chan<- ProgressUpdate
}

// NewGenerator creates a generator, filling unset options with defaults.
func NewGenerator(opts Opts) *Generator {
	if opts.Fetcher == nil {
		opts.Fetcher = images.Disabled{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Password == "" {
		opts.Password = "User@123"
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.EmailDomain == "" {
		opts.EmailDomain = "example.com"
	}
	if opts.Hasher == nil {
		opts.Hasher = BcryptHasher
	}
	if opts.ImageWidth <= 0 {
		opts.ImageWidth = 600
	}
	if opts.ImageHeight <= 0 {
		opts.ImageHeight = 600
	}
	if opts.ProfileWidth <= 0 {
		opts.ProfileWidth = 400
	}
	if opts.ProfileHeight <= 0 {
		opts.ProfileHeight = 400
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Generator{
		ds:       models.NewDataset(),
		rng:      rand.New(rand.NewPCG(opts.Seed, opts.Seed)),
		now:      opts.Now,
		fetcher:  opts.Fetcher,
		delays:   opts.Delays,
		limits:   opts.Relations,
		password: opts.Password,
		cost:     opts.BcryptCost,
		domain:   opts.EmailDomain,
		hasher:   opts.Hasher,
		imageW:   opts.ImageWidth,
		imageH:   opts.ImageHeight,
		profileW: opts.ProfileWidth,
		profileH: opts.ProfileHeight,
		logger:   opts.Logger,
		progress: opts.Progress,
	}
}

// Dataset returns the collections generated so far.
func (g *Generator) Dataset() *models.Dataset {
	return g.ds
}

// Run executes every stage in dependency order.
//
// The dataset is returned even on error so callers can report partial progress.
// An interrupted run returns an error wrapping [context.Canceled] or [context.DeadlineExceeded].
func (g *Generator) Run(ctx context.Context, counts models.Counts) (*models.Dataset, error) {
	if err := counts.Validate(); err != nil {
		return g.ds, err
	}

	if dm, ok := g.fetcher.(dirMaker); ok {
		if err := dm.EnsureDirs(); err != nil {
			return g.ds, err
		}
	}

	stages := []struct {
		name string
		fn   func(context.Context, int) error
		n    int
	}{
		{"artists", g.GenerateArtists, counts.Artists},
		{"albums", g.GenerateAlbums, counts.Albums},
		{"users", g.GenerateUsers, counts.Users},
		{"playlists", g.GeneratePlaylists, counts.Playlists},
		{"songs", g.GenerateSongs, counts.Songs},
	}

	for _, stage := range stages {
		if err := stage.fn(ctx, stage.n); err != nil {
			return g.ds, fmt.Errorf("%s stage failed: %w", stage.name, err)
		}
	}

	if g.limits.Enabled {
		if err := g.GenerateRelations(ctx); err != nil {
			return g.ds, fmt.Errorf("relations stage failed: %w", err)
		}
	}

	return g.ds, nil
}

// Interrupted reports whether err came from a cancelled or expired context.
func Interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (g *Generator) limiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

func checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: count must be >= 0, got %d", shared.ErrInvalidArgument, n)
	}
	return nil
}

// fetch downloads an image and returns the public path, recording a miss when the download fails.
// Images skipped by a [images.Disabled] fetcher or cut off by cancellation are not misses.
func (g *Generator) fetch(ctx context.Context, category string, width, height int) string {
	rel, ok := g.fetcher.Fetch(ctx, category, width, height)
	if !ok {
		_, off := g.fetcher.(images.Disabled)
		if !off && ctx.Err() == nil {
			g.ds.MissingImages[category]++
		}
		return ""
	}
	return images.PublicPath(rel)
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) pick(list []string) string {
	return list[g.rng.IntN(len(list))]
}

func daysAgo(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// sendProgress sends an update without blocking
func (g *Generator) sendProgress(update ProgressUpdate) {
	if g.progress == nil {
		return
	}
	select {
	case g.progress <- update:
	default:
		// Channel full, skip this update
	}
}

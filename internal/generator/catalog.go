package generator

import (
	"context"
	"fmt"

	"github.com/desertthunder/musicseed/internal/images"
	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/shared"
)

// GenerateArtists appends n artists with sequential IDs.
func (g *Generator) GenerateArtists(ctx context.Context, n int) error {
	if err := checkCount(n); err != nil {
		return err
	}

	g.logger.Info("generating artists", "count", n)
	g.sendProgress(stageStartedUpdate(GenerateArtists, n))
	lim := g.limiter(g.delays.Artists)

	for i := range n {
		if err := lim.Wait(ctx); err != nil {
			return fmt.Errorf("interrupted after %d artists: %w", i, err)
		}

		name := nameOrFallback(artistNames, i, "Artist")
		now := g.now()
		artist := models.Artist{
			ID:               len(g.ds.Artists) + 1,
			Name:             name,
			Bio:              artistBio(name),
			ImageURL:         g.fetch(ctx, images.Artists, g.imageW, g.imageH),
			Country:          g.pick(countries),
			Genre:            g.pick(genres),
			FormedDate:       daysAgo(now, g.between(365, 365*30)),
			MonthlyListeners: g.between(10_000, 50_000_000),
			IsActive:         g.rng.IntN(4) != 0,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		g.ds.Artists = append(g.ds.Artists, artist)
		g.sendProgress(recordUpdate(GenerateArtists, i+1, n, artist.Name, artist))
	}
	return nil
}

// GenerateAlbums appends n albums, each owned by a random existing artist.
func (g *Generator) GenerateAlbums(ctx context.Context, n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	if n > 0 && len(g.ds.Artists) == 0 {
		return fmt.Errorf("%w: albums require at least one artist", shared.ErrMissingDependency)
	}

	g.logger.Info("generating albums", "count", n)
	g.sendProgress(stageStartedUpdate(GenerateAlbums, n))
	lim := g.limiter(g.delays.Albums)

	for i := range n {
		if err := lim.Wait(ctx); err != nil {
			return fmt.Errorf("interrupted after %d albums: %w", i, err)
		}

		id := len(g.ds.Albums) + 1
		cover := g.fetch(ctx, images.Albums, g.imageW, g.imageH)
		artistID := g.between(1, len(g.ds.Artists))
		now := g.now()
		release := daysAgo(now, g.between(30, 3650))

		// total playing time of 30..80 minutes, always below 24h
		minutes := g.between(30, 80)
		duration := shared.FormatClock(minutes*60 + g.between(0, 59))

		album := models.Album{
			ID:            id,
			Title:         nameOrFallback(albumTitles, i, "Album"),
			ArtistID:      artistID,
			CoverImageURL: cover,
			Year:          release.Year(),
			Description:   albumDescription(id),
			Genre:         g.ds.Artists[artistID-1].Genre,
			ReleaseDate:   release,
			TotalTracks:   g.between(8, 16),
			Duration:      duration,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		g.ds.Albums = append(g.ds.Albums, album)
		g.sendProgress(recordUpdate(GenerateAlbums, i+1, n, album.Title, album))
	}
	return nil
}

// GenerateSongs appends n songs. Artist and album are sampled independently.
func (g *Generator) GenerateSongs(ctx context.Context, n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	if n > 0 && len(g.ds.Artists) == 0 {
		return fmt.Errorf("%w: songs require at least one artist", shared.ErrMissingDependency)
	}
	if n > 0 && len(g.ds.Albums) == 0 {
		return fmt.Errorf("%w: songs require at least one album", shared.ErrMissingDependency)
	}

	g.logger.Info("generating songs", "count", n)
	g.sendProgress(stageStartedUpdate(GenerateSongs, n))
	lim := g.limiter(g.delays.Songs)

	for i := range n {
		if err := lim.Wait(ctx); err != nil {
			return fmt.Errorf("interrupted after %d songs: %w", i, err)
		}

		cover := g.fetch(ctx, images.Songs, g.imageW, g.imageH)
		artistID := g.between(1, len(g.ds.Artists))
		albumID := g.between(1, len(g.ds.Albums))
		minutes, seconds := g.between(2, 6), g.between(0, 59)
		now := g.now()

		song := models.Song{
			ID:            len(g.ds.Songs) + 1,
			Title:         cycledName(songTitles, i),
			ArtistID:      artistID,
			AlbumID:       albumID,
			Duration:      shared.FormatClock(minutes*60 + seconds),
			CoverImageURL: cover,
			TrackNumber:   g.between(1, 16),
			Genre:         g.ds.Artists[artistID-1].Genre,
			ReleaseDate:   daysAgo(now, g.between(30, 365*5)),
			PlayCount:     g.between(100, 1_000_000),
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		g.ds.Songs = append(g.ds.Songs, song)
		g.sendProgress(recordUpdate(GenerateSongs, i+1, n, song.Title, song))
	}
	return nil
}

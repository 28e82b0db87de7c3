package generator

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/desertthunder/musicseed/internal/images"
	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/shared"
)

// GenerateUsers appends n user accounts sharing the configured password.
func (g *Generator) GenerateUsers(ctx context.Context, n int) error {
	if err := checkCount(n); err != nil {
		return err
	}

	g.logger.Info("generating users", "count", n)
	g.sendProgress(stageStartedUpdate(GenerateUsers, n))
	lim := g.limiter(g.delays.Users)

	for i := range n {
		if err := lim.Wait(ctx); err != nil {
			return fmt.Errorf("interrupted after %d users: %w", i, err)
		}

		id := len(g.ds.Users) + 1
		profile := g.fetch(ctx, images.Profiles, g.profileW, g.profileH)
		first, last := g.pick(firstNames), g.pick(lastNames)
		username := fmt.Sprintf("%s.%s%d", handle(first), handle(last), id)

		hash, err := g.hasher(g.password, g.cost)
		if err != nil {
			return fmt.Errorf("failed to hash password for user %d: %w", id, err)
		}

		now := g.now()
		created := daysAgo(now, g.between(30, 365))
		lastLogin := daysAgo(now, g.between(0, 30))
		if lastLogin.Before(created) {
			lastLogin = created
		}

		user := models.User{
			ID:              id,
			Username:        username,
			Email:           username + "@" + g.domain,
			FirstName:       first,
			LastName:        last,
			PasswordHash:    hash,
			ProfileImageURL: profile,
			CreatedAt:       created,
			UpdatedAt:       now,
			LastLoginAt:     lastLogin,
		}

		g.ds.Users = append(g.ds.Users, user)
		g.sendProgress(recordUpdate(GenerateUsers, i+1, n, user.Username, user))
	}
	return nil
}

// GeneratePlaylists appends n playlists owned by random existing users.
func (g *Generator) GeneratePlaylists(ctx context.Context, n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	if n > 0 && len(g.ds.Users) == 0 {
		return fmt.Errorf("%w: playlists require at least one user", shared.ErrMissingDependency)
	}

	g.logger.Info("generating playlists", "count", n)
	g.sendProgress(stageStartedUpdate(GeneratePlaylists, n))
	lim := g.limiter(g.delays.Playlists)

	for i := range n {
		if err := lim.Wait(ctx); err != nil {
			return fmt.Errorf("interrupted after %d playlists: %w", i, err)
		}

		cover := g.fetch(ctx, images.Playlists, g.imageW, g.imageH)
		userID := g.between(1, len(g.ds.Users))
		now := g.now()

		playlist := models.Playlist{
			ID:            len(g.ds.Playlists) + 1,
			Name:          cycledName(playlistNames, i),
			Description:   playlistDescription,
			UserID:        userID,
			CoverImageURL: cover,
			IsPublic:      g.rng.IntN(3) != 0,
			CreatedAt:     daysAgo(now, g.between(1, 180)),
			UpdatedAt:     now,
		}

		g.ds.Playlists = append(g.ds.Playlists, playlist)
		g.sendProgress(recordUpdate(GeneratePlaylists, i+1, n, playlist.Name, playlist))
	}
	return nil
}

// handle lowercases a name and drops everything but letters and digits.
func handle(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, name)
}

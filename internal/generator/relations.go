package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/musicseed/internal/models"
)

const (
	adminRoleID = 1
	userRoleID  = 2
)

// GenerateRelations fills the link tables from the catalog generated so far.
//
// Every song gets one primary artist credit. Playlists, favorites and followers draw distinct
// members up to their configured limits, so no key pair repeats and nobody follows themselves.
func (g *Generator) GenerateRelations(ctx context.Context) error {
	g.logger.Info("linking relations",
		"playlist_songs_max", g.limits.PlaylistSongsMax,
		"favorites_max", g.limits.FavoritesMax,
		"followers_max", g.limits.FollowersMax,
	)

	steps := []struct {
		table string
		fn    func(context.Context) error
		rows  func() int
	}{
		{models.TableRoles, g.linkRoles, func() int { return len(g.ds.Roles) + len(g.ds.UserRoles) }},
		{models.TableSongArtists, g.linkSongArtists, func() int { return len(g.ds.SongArtists) }},
		{models.TablePlaylistSongs, g.linkPlaylistSongs, func() int { return len(g.ds.PlaylistSongs) }},
		{models.TableUserFavorites, g.linkFavorites, func() int { return len(g.ds.UserFavorites) }},
		{models.TableUserFollowers, g.linkFollowers, func() int { return len(g.ds.UserFollowers) }},
	}

	g.sendProgress(stageStartedUpdate(LinkRelations, len(steps)))
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted before %s: %w", step.table, err)
		}
		if err := step.fn(ctx); err != nil {
			return err
		}
		g.sendProgress(relationsUpdate(i+1, len(steps), step.table, step.rows()))
	}
	return nil
}

func (g *Generator) linkRoles(context.Context) error {
	g.ds.Roles = []models.Role{
		{ID: adminRoleID, Name: models.RoleAdmin, Description: adminDescription},
		{ID: userRoleID, Name: models.RoleUser, Description: userDescription},
	}

	for _, u := range g.ds.Users {
		role := userRoleID
		if u.ID == 1 {
			role = adminRoleID
		}
		g.ds.UserRoles = append(g.ds.UserRoles, models.UserRole{UserID: u.ID, RoleID: role})
	}
	return nil
}

func (g *Generator) linkSongArtists(context.Context) error {
	for _, s := range g.ds.Songs {
		g.ds.SongArtists = append(g.ds.SongArtists, models.SongArtist{
			SongID:          s.ID,
			ArtistID:        s.ArtistID,
			IsPrimaryArtist: true,
			CreatedAt:       s.CreatedAt,
		})
	}
	return nil
}

func (g *Generator) linkPlaylistSongs(ctx context.Context) error {
	if len(g.ds.Songs) == 0 {
		return nil
	}

	now := g.now()
	for _, p := range g.ds.Playlists {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted linking playlist %d: %w", p.ID, err)
		}
		for order, songID := range g.sample(len(g.ds.Songs), g.limits.PlaylistSongsMax, 0) {
			g.ds.PlaylistSongs = append(g.ds.PlaylistSongs, models.PlaylistSong{
				PlaylistID: p.ID,
				SongID:     songID,
				Order:      order + 1,
				AddedAt:    g.since(p.CreatedAt, now),
			})
		}
	}
	return nil
}

func (g *Generator) linkFavorites(ctx context.Context) error {
	if len(g.ds.Songs) == 0 {
		return nil
	}

	now := g.now()
	for _, u := range g.ds.Users {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted linking favorites of user %d: %w", u.ID, err)
		}
		for _, songID := range g.sample(len(g.ds.Songs), g.limits.FavoritesMax, 0) {
			g.ds.UserFavorites = append(g.ds.UserFavorites, models.UserFavorite{
				UserID:  u.ID,
				SongID:  songID,
				AddedAt: g.since(u.CreatedAt, now),
			})
		}
	}
	return nil
}

func (g *Generator) linkFollowers(ctx context.Context) error {
	if len(g.ds.Users) < 2 {
		return nil
	}

	now := g.now()
	for _, u := range g.ds.Users {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted linking followers of user %d: %w", u.ID, err)
		}
		for _, followerID := range g.sample(len(g.ds.Users), g.limits.FollowersMax, u.ID) {
			g.ds.UserFollowers = append(g.ds.UserFollowers, models.UserFollower{
				UserID:     u.ID,
				FollowerID: followerID,
				FollowedAt: g.since(u.CreatedAt, now),
			})
		}
	}
	return nil
}

// sample draws between 0 and limit distinct IDs from 1..n, never returning exclude.
func (g *Generator) sample(n, limit, exclude int) []int {
	pool := n
	if exclude >= 1 && exclude <= n {
		pool--
	}
	k := min(limit, pool)
	if k <= 0 {
		return nil
	}
	k = g.rng.IntN(k + 1)

	ids := make([]int, 0, k)
	for _, idx := range g.rng.Perm(n) {
		if len(ids) == k {
			break
		}
		if idx+1 == exclude {
			continue
		}
		ids = append(ids, idx+1)
	}
	return ids
}

// since returns a random whole-day offset between start and now.
func (g *Generator) since(start, now time.Time) time.Time {
	days := int(now.Sub(start).Hours() / 24)
	if days <= 0 {
		return now
	}
	return daysAgo(now, g.between(0, days))
}

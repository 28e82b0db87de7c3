package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/musicseed/internal/shared"
)

// Table names in export order.
const (
	TableArtists       = "Artists"
	TableAlbums        = "Albums"
	TableSongs         = "Songs"
	TableUsers         = "Users"
	TablePlaylists     = "Playlists"
	TableRoles         = "Roles"
	TableUserRoles     = "UserRoles"
	TableSongArtists   = "SongArtists"
	TablePlaylistSongs = "PlaylistSongs"
	TableUserFavorites = "UserFavorites"
	TableUserFollowers = "UserFollowers"
)

// Tables lists every seeded table in the order rows must be inserted.
var Tables = []string{
	TableArtists,
	TableAlbums,
	TableSongs,
	TableUsers,
	TablePlaylists,
	TableRoles,
	TableUserRoles,
	TableSongArtists,
	TablePlaylistSongs,
	TableUserFavorites,
	TableUserFollowers,
}

// Role names seeded for every run.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Artist is a performer. An empty ImageURL means no image was stored.
type Artist struct {
	ID               int
	Name             string
	Bio              string
	ImageURL         string
	Country          string
	Genre            string
	FormedDate       time.Time
	MonthlyListeners int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Album belongs to one artist and copies its genre.
type Album struct {
	ID            int
	Title         string
	ArtistID      int
	CoverImageURL string
	Year          int
	Description   string
	Genre         string
	ReleaseDate   time.Time
	TotalTracks   int
	Duration      string // HH:MM:SS
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Song references an artist and an album sampled independently.
type Song struct {
	ID            int
	Title         string
	ArtistID      int
	AlbumID       int
	Duration      string // HH:MM:SS
	AudioURL      string // always empty for generated songs
	CoverImageURL string
	TrackNumber   int
	Genre         string
	ReleaseDate   time.Time
	PlayCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// User is an application account.
type User struct {
	ID              int
	Username        string
	Email           string
	FirstName       string
	LastName        string
	PasswordHash    string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     time.Time
}

// Playlist is owned by a user.
type Playlist struct {
	ID            int
	Name          string
	Description   string
	UserID        int
	CoverImageURL string
	IsPublic      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Role struct {
	ID          int
	Name        string
	Description string
}

type UserRole struct {
	UserID int
	RoleID int
}

// SongArtist credits an artist on a song.
type SongArtist struct {
	SongID          int
	ArtistID        int
	IsPrimaryArtist bool
	CreatedAt       time.Time
}

// PlaylistSong places a song in a playlist at a 1-based position.
type PlaylistSong struct {
	PlaylistID int
	SongID     int
	Order      int
	AddedAt    time.Time
}

type UserFavorite struct {
	UserID  int
	SongID  int
	AddedAt time.Time
}

// UserFollower records that FollowerID follows UserID.
type UserFollower struct {
	UserID     int
	FollowerID int
	FollowedAt time.Time
}

// Counts holds the requested number of records per catalog collection.
type Counts struct {
	Artists   int
	Albums    int
	Users     int
	Playlists int
	Songs     int
}

// Validate rejects negative counts.
func (c Counts) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"artists", c.Artists},
		{"albums", c.Albums},
		{"users", c.Users},
		{"playlists", c.Playlists},
		{"songs", c.Songs},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%w: %s count must be >= 0, got %d", shared.ErrInvalidArgument, f.name, f.value)
		}
	}
	return nil
}

// Dataset owns every collection produced by one generation run.
type Dataset struct {
	Artists   []Artist
	Albums    []Album
	Songs     []Song
	Users     []User
	Playlists []Playlist

	Roles         []Role
	UserRoles     []UserRole
	SongArtists   []SongArtist
	PlaylistSongs []PlaylistSong
	UserFavorites []UserFavorite
	UserFollowers []UserFollower

	// MissingImages counts records per image category whose download failed or was skipped.
	MissingImages map[string]int
}

// NewDataset returns an empty dataset ready for generation.
func NewDataset() *Dataset {
	return &Dataset{MissingImages: make(map[string]int)}
}

// Totals returns the number of rows per table.
func (d *Dataset) Totals() map[string]int {
	return map[string]int{
		TableArtists:       len(d.Artists),
		TableAlbums:        len(d.Albums),
		TableSongs:         len(d.Songs),
		TableUsers:         len(d.Users),
		TablePlaylists:     len(d.Playlists),
		TableRoles:         len(d.Roles),
		TableUserRoles:     len(d.UserRoles),
		TableSongArtists:   len(d.SongArtists),
		TablePlaylistSongs: len(d.PlaylistSongs),
		TableUserFavorites: len(d.UserFavorites),
		TableUserFollowers: len(d.UserFollowers),
	}
}

// Counts reports the catalog collection sizes.
func (d *Dataset) Counts() Counts {
	return Counts{
		Artists:   len(d.Artists),
		Albums:    len(d.Albums),
		Users:     len(d.Users),
		Playlists: len(d.Playlists),
		Songs:     len(d.Songs),
	}
}

// MissingImageTotal sums missing images over all categories.
func (d *Dataset) MissingImageTotal() int {
	total := 0
	for _, n := range d.MissingImages {
		total += n
	}
	return total
}

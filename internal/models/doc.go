// Package models defines the records that make up a generated music catalog.
//
// The package contains two categories of types:
//
// 1. Catalog records: one value per row of the music app's core tables
//   - [Artist] : Performer with bio, country and listener stats
//   - [Album] : Release owned by an artist
//   - [Song] : Track pointing at an artist and an album
//   - [User] : Account with a bcrypt password hash
//   - [Playlist] : User-owned collection of songs
//
// 2. Link records: rows of the many-to-many tables that tie the catalog together
//   - [Role], [UserRole] : Role assignments
//   - [SongArtist] : Artist credits per song
//   - [PlaylistSong] : Ordered playlist membership
//   - [UserFavorite], [UserFollower] : Social graph
//
// Every record uses a sequential integer ID starting at 1 and a foreign key is always an index into a collection
// generated earlier in the same run. A [Dataset] owns all collections for one run.
package models

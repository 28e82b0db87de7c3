// Package repositories implements SQLite persistence for generated seed data.
//
// [SeedRepository] applies an exported script to a database migrated with [shared.RunMigrations]
// and reports row counts per table, which lets a run be checked against the dataset it came from.
// Scripts must be exported with the sqlite dialect; anything else is refused with [shared.ErrUnsupportedDialect].
package repositories

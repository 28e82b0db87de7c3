// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file (default: config.toml)",
	}
}

// generateCommand builds the catalog, downloads images and writes the SQL script
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate fake music app data, placeholder images and a SQL seed script",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{Name: "artists", Usage: "Number of artists to generate"},
			&cli.IntFlag{Name: "albums", Usage: "Number of albums to generate"},
			&cli.IntFlag{Name: "users", Usage: "Number of users to generate"},
			&cli.IntFlag{Name: "playlists", Usage: "Number of playlists to generate"},
			&cli.IntFlag{Name: "songs", Usage: "Number of songs to generate"},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Random seed for reproducible data (default: current time)",
			},
			&cli.StringFlag{
				Name:  "dialect",
				Usage: "Timestamp dialect of the SQL script: mssql or sqlite",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "SQL script path",
			},
			&cli.StringFlag{
				Name:  "uploads",
				Usage: "Uploads directory for downloaded images",
			},
			&cli.BoolFlag{
				Name:  "no-images",
				Usage: "Skip image downloads and store records without images",
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "Write a JSON run manifest to this path",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: r.Generate,
	}
}

// loadCommand applies a generated script to a local SQLite database
func loadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "Migrate a SQLite database, apply a sqlite-dialect seed script and print row counts",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "SQL script to apply (default: output.sql_path)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite database path (default: database.path)",
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Drop and recreate all seeded tables before loading",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output row counts as JSON",
			},
		},
		Action: r.Load,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the default config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}

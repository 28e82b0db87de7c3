package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicseed/internal/exporter"
	"github.com/desertthunder/musicseed/internal/formatter"
	"github.com/desertthunder/musicseed/internal/generator"
	"github.com/desertthunder/musicseed/internal/images"
	"github.com/desertthunder/musicseed/internal/models"
	"github.com/desertthunder/musicseed/internal/shared"
	"github.com/urfave/cli/v3"
)

// Generate builds the dataset, writes the SQL script and prints a summary.
//
// Cancelling ctx stops generation between records. The partial summary and manifest are still written
// and the command returns nil so an interrupt is not reported as a failure.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if err := applyGenerateFlags(config, cmd); err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dialect, err := exporter.ParseDialect(config.Output.Dialect)
	if err != nil {
		return err
	}

	seed := uint64(r.now().UnixNano())
	if cmd.IsSet("seed") {
		seed = cmd.Uint64("seed")
	}

	var fetcher generator.ImageFetcher = images.Disabled{}
	if config.Images.Enabled {
		fetcher = images.NewClient(images.ClientOpts{
			BaseURL:    config.Images.BaseURL,
			UploadsDir: config.Output.UploadsDir,
			MinID:      config.Images.MinID,
			MaxID:      config.Images.MaxID,
			Timeout:    config.Images.Timeout(),
			HTTPClient: r.httpClient,
			Logger:     shared.WithLogger(r.logger, "component", "images"),
			Rand:       rand.New(rand.NewPCG(seed, ^seed)),
		})
	}

	progress := make(chan generator.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.reportProgress(update)
		}
	}()

	gen := generator.NewGenerator(generator.Opts{
		Fetcher:       fetcher,
		Seed:          seed,
		Now:           r.now,
		Delays:        delaysFromConfig(config.Throttle),
		Relations:     generator.RelationLimits(config.Relations),
		Password:      config.Users.Password,
		BcryptCost:    config.Users.BcryptCost,
		EmailDomain:   config.Users.EmailDomain,
		ImageWidth:    config.Images.Width,
		ImageHeight:   config.Images.Height,
		ProfileWidth:  config.Images.ProfileWidth,
		ProfileHeight: config.Images.ProfileHeight,
		Logger:        shared.WithLogger(r.logger, "component", "generator"),
		Progress:      progress,
	})

	counts := models.Counts(config.Counts)
	started := r.now()
	r.logger.Info("generating dataset", "seed", seed, "dialect", dialect, "images", config.Images.Enabled)

	ds, runErr := gen.Run(ctx, counts)
	close(progress)
	<-done

	paths := formatter.Paths{
		SQLPath:      config.Output.SQLPath,
		ManifestPath: config.Output.ManifestPath,
	}
	if config.Images.Enabled {
		paths.UploadsDir = config.Output.UploadsDir
	}

	manifest := formatter.ManifestOpts{
		RunID:     shared.GenerateID(),
		Seed:      seed,
		Dialect:   string(dialect),
		Paths:     paths,
		StartedAt: started,
	}

	if runErr != nil {
		if !generator.Interrupted(runErr) {
			return runErr
		}

		r.logger.Warn("generation interrupted, SQL file not written", "error", runErr)
		paths.SQLPath = ""
		manifest.Paths.SQLPath = ""
		manifest.Interrupted = true
		if err := r.finishManifest(ds, manifest); err != nil {
			return err
		}

		r.writePlainHeader("Generation Interrupted")
		return r.writePlain("%s", formatter.Summary(ds, paths))
	}

	if err := exporter.New(dialect, r.logger).WriteFile(config.Output.SQLPath, ds); err != nil {
		return err
	}
	if err := r.finishManifest(ds, manifest); err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Population Complete!")
	if err := r.writePlain("%s", formatter.Summary(ds, paths)); err != nil {
		return err
	}
	return r.writePlainln("%s", r.palette.Help(fmt.Sprintf("Seed: %d", seed)))
}

func (r *Runner) finishManifest(ds *models.Dataset, opts formatter.ManifestOpts) error {
	if opts.Paths.ManifestPath == "" {
		return nil
	}
	opts.FinishedAt = r.now()
	return formatter.WriteManifest(opts.Paths.ManifestPath, formatter.NewManifest(ds, opts))
}

func (r *Runner) reportProgress(update generator.ProgressUpdate) {
	switch {
	case update.Step == 0 && update.Phase != generator.LinkRelations:
		r.writePlain("%s\n", r.palette.Title(update.Message))
	case update.Phase == generator.LinkRelations:
		r.writePlain("  %s\n", r.palette.OK(update.Message))
	default:
		r.logger.Debug(update.Message, "phase", update.Phase)
	}
}

// applyGenerateFlags overlays explicitly set flags onto config.
func applyGenerateFlags(config *shared.Config, cmd *cli.Command) error {
	for name, target := range map[string]*int{
		"artists":   &config.Counts.Artists,
		"albums":    &config.Counts.Albums,
		"users":     &config.Counts.Users,
		"playlists": &config.Counts.Playlists,
		"songs":     &config.Counts.Songs,
	} {
		if !cmd.IsSet(name) {
			continue
		}
		n := int(cmd.Int(name))
		if n < 0 {
			return fmt.Errorf("%w: --%s must not be negative, got %d", shared.ErrInvalidFlag, name, n)
		}
		*target = n
	}

	if cmd.IsSet("dialect") {
		config.Output.Dialect = cmd.String("dialect")
	}
	if cmd.IsSet("output") {
		config.Output.SQLPath = cmd.String("output")
	}
	if cmd.IsSet("uploads") {
		config.Output.UploadsDir = cmd.String("uploads")
	}
	if cmd.IsSet("manifest") {
		config.Output.ManifestPath = cmd.String("manifest")
	}
	if cmd.Bool("no-images") {
		config.Images.Enabled = false
	}
	return nil
}

func delaysFromConfig(t shared.ThrottleConfig) generator.Delays {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return generator.Delays{
		Artists:   ms(t.ArtistsMS),
		Albums:    ms(t.AlbumsMS),
		Users:     ms(t.UsersMS),
		Playlists: ms(t.PlaylistsMS),
		Songs:     ms(t.SongsMS),
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/musicseed/internal/generator"
	"github.com/desertthunder/musicseed/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "musicseed",
		Usage:    "Generate fake music app data, placeholder images and SQL seed scripts",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if generator.Interrupted(err) {
			logger.Warn("interrupted")
			os.Exit(0)
		}
		stop()
		logger.Fatalf("application error: %v", err)
	}
}

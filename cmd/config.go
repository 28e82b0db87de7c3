package main

import (
	"context"

	"github.com/desertthunder/musicseed/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("%s %s\n", r.palette.OK("Wrote"), path)
}

package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"azimuth-installer/internal/app"
)

type listOptions struct {
	Project projectFlags
}

func newListCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show packages installed into the project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, opts)
		},
	}
	addProjectFlags(cmd, &opts.Project)
	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, opts listOptions) error {
	service := newAppService()
	result, err := service.ListInstalled(log.Logger.WithContext(ctx), app.ListRequest{
		Project: resolveProject(cmd, opts.Project),
	})
	if err != nil {
		return err
	}
	for _, pkg := range result.Packages {
		fmt.Printf("%s %s (author=%s)\n", pkg.Name, pkg.Version, pkg.Author)
	}
	return nil
}

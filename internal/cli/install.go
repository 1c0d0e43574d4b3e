package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"azimuth-installer/internal/app"
)

type installOptions struct {
	Storage storageFlags
	Project projectFlags
	Package string
	Version string
}

func newInstallCommand() *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Pick a package version and install it into the project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd.Context(), cmd, opts)
		},
	}
	addStorageFlags(cmd, &opts.Storage)
	addProjectFlags(cmd, &opts.Project)
	cmd.Flags().StringVar(&opts.Package, "package", "", "Package to install without prompting")
	cmd.Flags().StringVar(&opts.Version, "version", "", "Version to install without prompting")

	_ = viper.BindPFlag("package", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("version", cmd.Flags().Lookup("version"))
	return cmd
}

func runInstall(ctx context.Context, cmd *cobra.Command, opts installOptions) error {
	service := newAppService()
	result, err := service.Install(log.Logger.WithContext(ctx), app.InstallRequest{
		Storage: resolveStorage(cmd, opts.Storage),
		Project: resolveProject(cmd, opts.Project),
		Package: resolveString(cmd, opts.Package, "package", "package"),
		Version: resolveString(cmd, opts.Version, "version", "version"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("installed %s@%s\n", result.Package.Name, result.Package.Version)
	return nil
}

func newAppService() app.Service {
	return app.NewService()
}

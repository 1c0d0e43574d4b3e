package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"azimuth-installer/internal/app"
	"azimuth-installer/internal/types"
)

type catalogOptions struct {
	Storage storageFlags
	Output  string
}

func newCatalogCommand() *cobra.Command {
	opts := catalogOptions{}
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List packages and versions available in the bucket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalog(cmd.Context(), cmd, opts)
		},
	}
	addStorageFlags(cmd, &opts.Storage)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text or yaml)")
	_ = viper.BindPFlag("catalog_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runCatalog(ctx context.Context, cmd *cobra.Command, opts catalogOptions) error {
	service := newAppService()
	result, err := service.Catalog(log.Logger.WithContext(ctx), app.CatalogRequest{
		Storage: resolveStorage(cmd, opts.Storage),
	})
	if err != nil {
		return err
	}
	return writeCatalog(os.Stdout, resolveString(cmd, opts.Output, "catalog_output", "output"), result.Packages)
}

func writeCatalog(w io.Writer, format string, entries []types.CatalogEntry) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		for _, entry := range entries {
			if _, err := fmt.Fprintf(w, "%s: %s\n", entry.Name, strings.Join(entry.Versions, ", ")); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(entries); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode catalog").
				WithCause(err)
		}
		return encoder.Close()
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported output format")
	}
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"azimuth-installer/internal/app"
	"azimuth-installer/internal/types"
)

type storageFlags struct {
	Backend     string
	Bucket      string
	Account     string
	GCSEndpoint string
	SourceDir   string
	TempDir     string
}

type projectFlags struct {
	ProjectDir    string
	ReferencesDir string
	IndexFile     string
}

func addStorageFlags(cmd *cobra.Command, opts *storageFlags) {
	cmd.Flags().StringVar(&opts.Backend, "backend", string(types.StorageBackendGCS), "Storage backend (gcs or local)")
	cmd.Flags().StringVarP(&opts.Bucket, "bucket", "b", types.DefaultBucket, "Bucket holding the package catalog")
	cmd.Flags().StringVarP(&opts.Account, "account", "a", "", "Service account key file (defaults to application default credentials)")
	cmd.Flags().StringVar(&opts.GCSEndpoint, "gcs-endpoint", "", "Storage API endpoint override (emulators)")
	cmd.Flags().StringVar(&opts.SourceDir, "source-dir", "", "Directory containing bucket folders for the local backend")
	cmd.Flags().StringVarP(&opts.TempDir, "temp", "t", "", "Staging directory (defaults to <tmp>/azimuth-packages)")

	_ = viper.BindPFlag("backend", cmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("bucket", cmd.Flags().Lookup("bucket"))
	_ = viper.BindPFlag("account", cmd.Flags().Lookup("account"))
	_ = viper.BindPFlag("gcs_endpoint", cmd.Flags().Lookup("gcs-endpoint"))
	_ = viper.BindPFlag("source_dir", cmd.Flags().Lookup("source-dir"))
	_ = viper.BindPFlag("temp", cmd.Flags().Lookup("temp"))
}

func addProjectFlags(cmd *cobra.Command, opts *projectFlags) {
	cmd.Flags().StringVar(&opts.ProjectDir, "project-dir", "", "Project root (defaults to the working directory)")
	cmd.Flags().StringVar(&opts.ReferencesDir, "references-dir", types.DefaultReferencesDir, "Dependency directory relative to the project root")
	cmd.Flags().StringVar(&opts.IndexFile, "index-file", types.DefaultIndexFile, "Generated index file name")

	_ = viper.BindPFlag("project_dir", cmd.Flags().Lookup("project-dir"))
	_ = viper.BindPFlag("references_dir", cmd.Flags().Lookup("references-dir"))
	_ = viper.BindPFlag("index_file", cmd.Flags().Lookup("index-file"))
}

func resolveStorage(cmd *cobra.Command, opts storageFlags) app.StorageOptions {
	return app.StorageOptions{
		Backend:     resolveString(cmd, opts.Backend, "backend", "backend"),
		Bucket:      resolveString(cmd, opts.Bucket, "bucket", "bucket"),
		Account:     resolveString(cmd, opts.Account, "account", "account"),
		GCSEndpoint: resolveString(cmd, opts.GCSEndpoint, "gcs_endpoint", "gcs-endpoint"),
		SourceDir:   resolveString(cmd, opts.SourceDir, "source_dir", "source-dir"),
		TempDir:     resolveString(cmd, opts.TempDir, "temp", "temp"),
	}
}

func resolveProject(cmd *cobra.Command, opts projectFlags) app.ProjectOptions {
	return app.ProjectOptions{
		ProjectDir:    resolveString(cmd, opts.ProjectDir, "project_dir", "project-dir"),
		ReferencesDir: resolveString(cmd, opts.ReferencesDir, "references_dir", "references-dir"),
		IndexFile:     resolveString(cmd, opts.IndexFile, "index_file", "index-file"),
	}
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}

package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"azimuth-installer/internal/adapters"
	"azimuth-installer/internal/core"
	"azimuth-installer/internal/ports"
	"azimuth-installer/internal/types"
)

func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	storage, closeStorage, err := s.storageFor(ctx, req.Storage)
	if err != nil {
		return InstallResult{}, err
	}
	defer closeStorage()

	var prompter ports.PrompterPort = s.Prompter
	if strings.TrimSpace(req.Package) != "" || strings.TrimSpace(req.Version) != "" {
		prompter = adapters.NewPreselectedPrompterAdapter(map[string]string{
			core.PackagePromptMessage: req.Package,
			core.VersionPromptMessage: req.Version,
		}, s.Prompter)
	}
	installer, err := s.newInstaller(req.Storage, req.Project, storage, prompter)
	if err != nil {
		return InstallResult{}, err
	}
	meta, err := core.NewRunner(installer).Run(ctx)
	if err != nil {
		return InstallResult{}, err
	}
	return InstallResult{Package: meta}, nil
}

func (s Service) newInstaller(storageOpts StorageOptions, project ProjectOptions, storage ports.StoragePort, prompter ports.PrompterPort) (*core.Installer, error) {
	files, err := adapters.NewFileStoreAdapter(s.Fs, strings.TrimSpace(project.ProjectDir))
	if err != nil {
		return nil, err
	}
	settings := core.InstallerSettings{
		Bucket:        strings.TrimSpace(storageOpts.Bucket),
		TempDir:       strings.TrimSpace(storageOpts.TempDir),
		ReferencesDir: strings.TrimSpace(project.ReferencesDir),
		IndexFile:     strings.TrimSpace(project.IndexFile),
	}
	return core.NewInstaller(settings, storage, files, prompter), nil
}

// storageFor builds the storage backend named in opts. The returned close
// function is always safe to call.
func (s Service) storageFor(ctx context.Context, opts StorageOptions) (ports.StoragePort, func(), error) {
	noop := func() {}
	if s.Storage != nil {
		return s.Storage, noop, nil
	}
	backend := types.StorageBackend(strings.ToLower(strings.TrimSpace(opts.Backend)))
	if backend == "" {
		backend = types.StorageBackendGCS
	}
	switch backend {
	case types.StorageBackendGCS:
		adapter, err := adapters.NewGCSStorageAdapter(ctx, adapters.GCSOptions{
			CredentialsFile: opts.Account,
			Endpoint:        opts.GCSEndpoint,
		}, s.Fs)
		if err != nil {
			return nil, noop, err
		}
		return adapter, func() { _ = adapter.Close() }, nil
	case types.StorageBackendLocal:
		sourceDir := strings.TrimSpace(opts.SourceDir)
		if sourceDir == "" {
			return nil, noop, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("source directory is required for local backend")
		}
		return adapters.NewLocalStorageAdapter(sourceDir, s.Fs), noop, nil
	default:
		return nil, noop, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported storage backend")
	}
}

package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"azimuth-installer/internal/types"
)

// InstallSteps is the set of operations the Runner sequences.
type InstallSteps interface {
	DownloadMetadata(ctx context.Context) error
	LoadMetadata(ctx context.Context) error
	EnsureServiceReferenceDirectory(ctx context.Context) error
	EnsureIndex(ctx context.Context) error
	EnsureProjectMetadata(ctx context.Context) error
	LoadProjectMetadata(ctx context.Context) error
	AskForPackageSelection(ctx context.Context) (string, error)
	AskForVersionSelection(ctx context.Context, name string) (types.PackageMetadata, error)
	EnsureDestination(ctx context.Context, meta types.PackageMetadata) (types.PackageMetadata, error)
	DownloadPackage(ctx context.Context, meta types.PackageMetadata) (types.PackageMetadata, error)
	CopyFiles(ctx context.Context, meta types.PackageMetadata) (types.PackageMetadata, error)
	UpdateIndex(ctx context.Context, meta types.PackageMetadata) (types.PackageMetadata, error)
	UpdateProjectMetadata(ctx context.Context, meta types.PackageMetadata) error
}

var _ InstallSteps = (*Installer)(nil)

type Runner struct {
	Steps InstallSteps
}

func NewRunner(steps InstallSteps) Runner {
	return Runner{Steps: steps}
}

type metadataStep struct {
	name string
	run  func(context.Context, types.PackageMetadata) (types.PackageMetadata, error)
}

// Run executes the install workflow in order and stops at the first
// failure. It returns the metadata of the package that was installed.
func (r Runner) Run(ctx context.Context) (types.PackageMetadata, error) {
	prepare := []struct {
		name string
		run  func(context.Context) error
	}{
		{"downloadMetadata", r.Steps.DownloadMetadata},
		{"loadMetadata", r.Steps.LoadMetadata},
		{"ensureServiceReferenceDirectory", r.Steps.EnsureServiceReferenceDirectory},
		{"ensureIndex", r.Steps.EnsureIndex},
		{"ensureProjectMetadata", r.Steps.EnsureProjectMetadata},
		{"loadProjectMetadata", r.Steps.LoadProjectMetadata},
	}
	for _, step := range prepare {
		if err := r.begin(ctx, step.name); err != nil {
			return types.PackageMetadata{}, err
		}
		if err := step.run(ctx); err != nil {
			return types.PackageMetadata{}, err
		}
	}

	if err := r.begin(ctx, "askForPackageSelection"); err != nil {
		return types.PackageMetadata{}, err
	}
	name, err := r.Steps.AskForPackageSelection(ctx)
	if err != nil {
		return types.PackageMetadata{}, err
	}
	if err := r.begin(ctx, "askForVersionSelection"); err != nil {
		return types.PackageMetadata{}, err
	}
	meta, err := r.Steps.AskForVersionSelection(ctx, name)
	if err != nil {
		return types.PackageMetadata{}, err
	}

	install := []metadataStep{
		{"ensureDestination", r.Steps.EnsureDestination},
		{"downloadPackage", r.Steps.DownloadPackage},
		{"copyFiles", r.Steps.CopyFiles},
		{"updateIndex", r.Steps.UpdateIndex},
	}
	for _, step := range install {
		if err := r.begin(ctx, step.name); err != nil {
			return meta, err
		}
		meta, err = step.run(ctx, meta)
		if err != nil {
			return meta, err
		}
	}

	if err := r.begin(ctx, "updateProjectMetadata"); err != nil {
		return meta, err
	}
	if err := r.Steps.UpdateProjectMetadata(ctx, meta); err != nil {
		return meta, err
	}
	log.Ctx(ctx).Debug().Str("package", meta.Name).Str("version", meta.Version).Msg("install completed")
	return meta, nil
}

// begin logs the step and honors a deadline or cancellation imposed by the
// caller between steps.
func (r Runner) begin(ctx context.Context, step string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Str("step", step).Msg("installer step")
	return nil
}

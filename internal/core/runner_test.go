package core

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azimuth-installer/internal/types"
)

// recordingSteps records each call and tags the metadata it passes along so
// the tests can see which step produced what.
type recordingSteps struct {
	calls  []string
	failAt string
	seen   []types.PackageMetadata
}

func (r *recordingSteps) step(name string) error {
	r.calls = append(r.calls, name)
	if name == r.failAt {
		return errors.New(name + " failed")
	}
	return nil
}

func (r *recordingSteps) metaStep(name string, meta types.PackageMetadata) (types.PackageMetadata, error) {
	r.seen = append(r.seen, meta)
	if err := r.step(name); err != nil {
		return meta, err
	}
	meta.Author += name + ";"
	return meta, nil
}

func (r *recordingSteps) DownloadMetadata(context.Context) error { return r.step("downloadMetadata") }
func (r *recordingSteps) LoadMetadata(context.Context) error     { return r.step("loadMetadata") }
func (r *recordingSteps) EnsureServiceReferenceDirectory(context.Context) error {
	return r.step("ensureServiceReferenceDirectory")
}
func (r *recordingSteps) EnsureIndex(context.Context) error { return r.step("ensureIndex") }
func (r *recordingSteps) EnsureProjectMetadata(context.Context) error {
	return r.step("ensureProjectMetadata")
}
func (r *recordingSteps) LoadProjectMetadata(context.Context) error {
	return r.step("loadProjectMetadata")
}

func (r *recordingSteps) AskForPackageSelection(context.Context) (string, error) {
	return "pkg", r.step("askForPackageSelection")
}

func (r *recordingSteps) AskForVersionSelection(_ context.Context, name string) (types.PackageMetadata, error) {
	return types.PackageMetadata{Name: name, Version: "1.0.0"}, r.step("askForVersionSelection")
}

func (r *recordingSteps) EnsureDestination(_ context.Context, meta types.PackageMetadata) (types.PackageMetadata, error) {
	return r.metaStep("ensureDestination", meta)
}

func (r *recordingSteps) DownloadPackage(_ context.Context, meta types.PackageMetadata) (types.PackageMetadata, error) {
	return r.metaStep("downloadPackage", meta)
}

func (r *recordingSteps) CopyFiles(_ context.Context, meta types.PackageMetadata) (types.PackageMetadata, error) {
	return r.metaStep("copyFiles", meta)
}

func (r *recordingSteps) UpdateIndex(_ context.Context, meta types.PackageMetadata) (types.PackageMetadata, error) {
	return r.metaStep("updateIndex", meta)
}

func (r *recordingSteps) UpdateProjectMetadata(_ context.Context, meta types.PackageMetadata) error {
	r.seen = append(r.seen, meta)
	return r.step("updateProjectMetadata")
}

var allSteps = []string{
	"downloadMetadata",
	"loadMetadata",
	"ensureServiceReferenceDirectory",
	"ensureIndex",
	"ensureProjectMetadata",
	"loadProjectMetadata",
	"askForPackageSelection",
	"askForVersionSelection",
	"ensureDestination",
	"downloadPackage",
	"copyFiles",
	"updateIndex",
	"updateProjectMetadata",
}

func TestRunnerRunsStepsInOrder(t *testing.T) {
	steps := &recordingSteps{}
	meta, err := NewRunner(steps).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, allSteps, steps.calls)
	assert.Equal(t, "pkg", meta.Name)
	assert.Equal(t, "1.0.0", meta.Version)
}

func TestRunnerThreadsMetadata(t *testing.T) {
	steps := &recordingSteps{}
	_, err := NewRunner(steps).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, steps.seen, 5)
	assert.Equal(t, "", steps.seen[0].Author)
	assert.Equal(t, "ensureDestination;", steps.seen[1].Author)
	assert.Equal(t, "ensureDestination;downloadPackage;", steps.seen[2].Author)
	assert.Equal(t, "ensureDestination;downloadPackage;copyFiles;", steps.seen[3].Author)
	assert.Equal(t, "ensureDestination;downloadPackage;copyFiles;updateIndex;", steps.seen[4].Author)
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	for idx, failAt := range allSteps {
		t.Run(failAt, func(t *testing.T) {
			steps := &recordingSteps{failAt: failAt}
			_, err := NewRunner(steps).Run(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), failAt+" failed")
			assert.Equal(t, allSteps[:idx+1], steps.calls)
		})
	}
}

func TestRunnerHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	steps := &recordingSteps{}
	_, err := NewRunner(steps).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, steps.calls)
}

func TestRunnerInstallsPackage(t *testing.T) {
	installer, _, _, fs := newTestInstaller(t, catalogObjects(t), map[string]string{
		PackagePromptMessage: "azimuth-secrets",
		VersionPromptMessage: "1.0.3",
	})

	meta, err := NewRunner(installer).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, secretsMeta("1.0.3"), meta)

	destination := filepath.Join(testRefsDir, "azimuth-secrets")
	assert.Equal(t, "export class SecretService {}\n", readFile(t, fs, filepath.Join(destination, "Secret.Service.ts")))
	assert.Equal(t, "export * from './lib/client';\n", readFile(t, fs, filepath.Join(destination, "index.ts")))
	assert.Equal(t, "export const client = {};\n", readFile(t, fs, filepath.Join(destination, "lib", "client.ts")))
	assert.False(t, exists(t, fs, filepath.Join(destination, types.PackageFilesFile)))
	assert.False(t, exists(t, fs, filepath.Join(destination, types.PackageMetadataFile)))

	index := readFile(t, fs, filepath.Join(testRefsDir, "index.ts"))
	assert.Equal(t, "import * as AzimuthSecrets from './azimuth-secrets';\nexport { AzimuthSecrets };\n", index)

	var project types.ProjectMetadata
	require.NoError(t, json.Unmarshal([]byte(readFile(t, fs, filepath.Join(testRefsDir, types.ProjectMetadataFile))), &project))
	assert.Equal(t, map[string]types.PackageMetadata{"azimuth-secrets": secretsMeta("1.0.3")}, project.Packages)

	// A second run over the same project leaves the index unchanged.
	_, err = NewRunner(installer).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, index, readFile(t, fs, filepath.Join(testRefsDir, "index.ts")))
}

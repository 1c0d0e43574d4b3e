package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"azimuth-installer/internal/ports"
	"azimuth-installer/internal/shared"
	"azimuth-installer/internal/types"
)

const (
	PackagePromptMessage = "Choose a package to install."
	VersionPromptMessage = "Choose a version to install."
)

// InstallerSettings holds the resolved configuration for one installer run.
type InstallerSettings struct {
	Bucket string
	// TempDir is the staging root; packages land in TempDir/<name>/<version>.
	// Defaults to <os temp>/azimuth-packages.
	TempDir string
	// ReferencesDir is the dependency directory, relative to the working
	// directory and written with forward slashes.
	ReferencesDir string
	IndexFile     string
}

func (s InstallerSettings) withDefaults() InstallerSettings {
	if strings.TrimSpace(s.TempDir) == "" {
		s.TempDir = filepath.Join(os.TempDir(), types.DefaultTempDirName)
	}
	if strings.TrimSpace(s.Bucket) == "" {
		s.Bucket = types.DefaultBucket
	}
	if strings.TrimSpace(s.ReferencesDir) == "" {
		s.ReferencesDir = types.DefaultReferencesDir
	}
	if strings.TrimSpace(s.IndexFile) == "" {
		s.IndexFile = types.DefaultIndexFile
	}
	return s
}

// Installer implements each step of the install workflow. It owns the
// catalog and project manifest for the duration of a single run and must
// not be shared between concurrent runs.
type Installer struct {
	Settings InstallerSettings
	Storage  ports.StoragePort
	Files    ports.FileStorePort
	Prompter ports.PrompterPort

	repoMetadata    types.RepositoryMetadata
	projectMetadata types.ProjectMetadata
}

func NewInstaller(settings InstallerSettings, storage ports.StoragePort, files ports.FileStorePort, prompter ports.PrompterPort) *Installer {
	return &Installer{
		Settings: settings.withDefaults(),
		Storage:  storage,
		Files:    files,
		Prompter: prompter,
	}
}

// RepositoryMetadata returns the catalog loaded by LoadMetadata.
func (i *Installer) RepositoryMetadata() types.RepositoryMetadata {
	return i.repoMetadata
}

// ProjectMetadata returns the manifest loaded by LoadProjectMetadata.
func (i *Installer) ProjectMetadata() types.ProjectMetadata {
	return i.projectMetadata
}

func (i *Installer) DownloadMetadata(ctx context.Context) error {
	if err := i.Files.EnsureDir(i.Settings.TempDir); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Str("bucket", i.Settings.Bucket).Msg("downloading repository metadata")
	return i.Storage.Fetch(
		ctx,
		i.Settings.Bucket,
		shared.RemotePath(types.RepositoryMetadataFile),
		filepath.Join(i.Settings.TempDir, types.RepositoryMetadataFile),
	)
}

func (i *Installer) LoadMetadata(ctx context.Context) error {
	content, err := i.Files.ReadText(i.Settings.TempDir, types.RepositoryMetadataFile)
	if err != nil {
		return err
	}
	var metadata types.RepositoryMetadata
	if err := json.Unmarshal([]byte(content), &metadata); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid repository metadata").
			WithCause(err)
	}
	if metadata == nil {
		metadata = types.RepositoryMetadata{}
	}
	i.repoMetadata = metadata
	log.Ctx(ctx).Debug().Int("packages", len(metadata)).Msg("repository metadata loaded")
	return nil
}

func (i *Installer) EnsureServiceReferenceDirectory(_ context.Context) error {
	return i.Files.EnsureDir(i.referencesPath()...)
}

func (i *Installer) EnsureIndex(_ context.Context) error {
	return i.Files.EnsureFile(i.referencesPath(i.Settings.IndexFile)...)
}

func (i *Installer) EnsureProjectMetadata(_ context.Context) error {
	return i.Files.EnsureFile(i.referencesPath(types.ProjectMetadataFile)...)
}

func (i *Installer) LoadProjectMetadata(ctx context.Context) error {
	content, err := i.Files.ReadText(i.referencesPath(types.ProjectMetadataFile)...)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		content = "{}"
	}
	var metadata types.ProjectMetadata
	if err := json.Unmarshal([]byte(content), &metadata); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid project metadata").
			WithCause(err)
	}
	if metadata.Packages == nil {
		metadata.Packages = map[string]types.PackageMetadata{}
	}
	i.projectMetadata = metadata
	log.Ctx(ctx).Debug().Int("installed", len(metadata.Packages)).Msg("project metadata loaded")
	return nil
}

func (i *Installer) AskForPackageSelection(ctx context.Context) (string, error) {
	names := make([]string, 0, len(i.repoMetadata))
	for name := range i.repoMetadata {
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no packages available")
	}
	sort.Strings(names)
	selected, err := i.Prompter.SelectOne(ctx, PackagePromptMessage, names)
	if err != nil {
		return "", err
	}
	if _, ok := i.repoMetadata[selected]; !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package %s not found in catalog", selected))
	}
	return selected, nil
}

func (i *Installer) AskForVersionSelection(ctx context.Context, name string) (types.PackageMetadata, error) {
	versions, ok := i.repoMetadata[name]
	if !ok {
		return types.PackageMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package %s not found in catalog", name))
	}
	ordered, err := orderedVersions(name, versions)
	if err != nil {
		return types.PackageMetadata{}, err
	}
	selected, err := i.Prompter.SelectOne(ctx, VersionPromptMessage, ordered)
	if err != nil {
		return types.PackageMetadata{}, err
	}
	meta, ok := versions[selected]
	if !ok {
		return types.PackageMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("version %s of %s not found in catalog", selected, name))
	}
	// Catalog keys are authoritative when an entry leaves them out.
	if meta.Name == "" {
		meta.Name = name
	}
	if meta.Version == "" {
		meta.Version = selected
	}
	return meta, nil
}

// Catalog lists every package in ascending name order with its versions
// newest first.
func (i *Installer) Catalog() ([]types.CatalogEntry, error) {
	names := make([]string, 0, len(i.repoMetadata))
	for name := range i.repoMetadata {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]types.CatalogEntry, 0, len(names))
	for _, name := range names {
		versions := make([]string, 0, len(i.repoMetadata[name]))
		for version := range i.repoMetadata[name] {
			versions = append(versions, version)
		}
		ordered, err := SortVersionsDescending(versions)
		if err != nil {
			return nil, err
		}
		entries = append(entries, types.CatalogEntry{Name: name, Versions: ordered})
	}
	return entries, nil
}

// DownloadPackage stages one package version under TempDir/<name>/<version>.
// Any previous staging of the same version is removed first, and files are
// fetched one at a time in manifest order.
func (i *Installer) DownloadPackage(ctx context.Context, meta types.PackageMetadata) (types.PackageMetadata, error) {
	if err := validatePackageMetadata(meta); err != nil {
		return meta, err
	}
	stage := i.stagingPath(ctx, meta)
	if err := i.removeIfPresent(stage...); err != nil {
		return meta, err
	}
	if err := i.Files.EnsureDir(stage...); err != nil {
		return meta, err
	}
	for _, file := range []string{types.PackageFilesFile, types.PackageMetadataFile} {
		if err := i.Storage.Fetch(ctx, i.Settings.Bucket, shared.RemotePath(meta.Name, meta.Version, file), joinPath(stage, file)); err != nil {
			return meta, err
		}
	}
	content, err := i.Files.ReadText(joinPath(stage, types.PackageFilesFile))
	if err != nil {
		return meta, err
	}
	var files types.PackageFiles
	if err := json.Unmarshal([]byte(content), &files); err != nil {
		return meta, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid package file list").
			WithCause(err)
	}
	prefix := shared.RemotePath(meta.Name, meta.Version) + "/"
	for _, remote := range files.Files {
		segments, err := localSegments(remote, prefix)
		if err != nil {
			return meta, err
		}
		local := joinPath(stage, segments...)
		if err := i.Files.EnsureDir(filepath.Dir(local)); err != nil {
			return meta, err
		}
		if err := i.Storage.Fetch(ctx, i.Settings.Bucket, remote, local); err != nil {
			return meta, err
		}
	}
	log.Ctx(ctx).Debug().
		Str("package", meta.Name).
		Str("version", meta.Version).
		Int("files", len(files.Files)).
		Msg("package staged")
	return meta, nil
}

// EnsureDestination recreates <references>/<name> as an empty directory.
func (i *Installer) EnsureDestination(_ context.Context, meta types.PackageMetadata) (types.PackageMetadata, error) {
	if err := validatePackageMetadata(meta); err != nil {
		return meta, err
	}
	destination := i.referencesPath(meta.Name)
	if err := i.removeIfPresent(destination...); err != nil {
		return meta, err
	}
	return meta, i.Files.EnsureDir(destination...)
}

// CopyFiles copies the staged tree into the destination directory and
// drops the two staging manifests, which are not package content.
func (i *Installer) CopyFiles(ctx context.Context, meta types.PackageMetadata) (types.PackageMetadata, error) {
	if err := validatePackageMetadata(meta); err != nil {
		return meta, err
	}
	destination := joinPath(i.referencesPath(meta.Name))
	if err := i.Files.CopyTree(joinPath(i.stagingPath(ctx, meta)), destination); err != nil {
		return meta, err
	}
	for _, file := range []string{types.PackageFilesFile, types.PackageMetadataFile} {
		if err := i.removeIfPresent(destination, file); err != nil {
			return meta, err
		}
	}
	return meta, nil
}

func (i *Installer) UpdateIndex(ctx context.Context, meta types.PackageMetadata) (types.PackageMetadata, error) {
	path := i.referencesPath(i.Settings.IndexFile)
	content, err := i.Files.ReadText(path...)
	if err != nil {
		return meta, err
	}
	if err := i.checkSymbol(meta); err != nil {
		return meta, err
	}
	importLine, exportLine := IndexLines(meta)
	updated := MergeIndex(content, importLine, exportLine)
	log.Ctx(ctx).Debug().Str("package", meta.Name).Bool("changed", updated != content).Msg("index updated")
	return meta, i.Files.WriteText(updated, path...)
}

// checkSymbol makes sure meta's symbol is a valid identifier that no other
// installed package already binds in the index.
func (i *Installer) checkSymbol(meta types.PackageMetadata) error {
	symbol := ProperCase(meta.SymbolSource())
	if err := ValidateSymbol(symbol, meta.SymbolSource()); err != nil {
		return err
	}
	names := make([]string, 0, len(i.projectMetadata.Packages))
	for name := range i.projectMetadata.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == meta.Name {
			continue
		}
		if ProperCase(i.projectMetadata.Packages[name].SymbolSource()) == symbol {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("symbol %s of %s is already bound by %s", symbol, meta.Name, name))
		}
	}
	return nil
}

// UpdateProjectMetadata records meta as the installed version of its
// package, replacing any earlier entry, and persists the manifest.
func (i *Installer) UpdateProjectMetadata(_ context.Context, meta types.PackageMetadata) error {
	if i.projectMetadata.Packages == nil {
		i.projectMetadata.Packages = map[string]types.PackageMetadata{}
	}
	i.projectMetadata.Packages[meta.Name] = meta
	data, err := json.MarshalIndent(i.projectMetadata, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode project metadata").
			WithCause(err)
	}
	return i.Files.WriteText(string(data)+"\n", i.referencesPath(types.ProjectMetadataFile)...)
}

func (i *Installer) referencesPath(extra ...string) []string {
	parts := []string{i.Files.WorkingDirectory()}
	parts = append(parts, shared.SplitRelative(filepath.ToSlash(i.Settings.ReferencesDir))...)
	return append(parts, extra...)
}

func (i *Installer) stagingPath(ctx context.Context, meta types.PackageMetadata) []string {
	assert.NotEmpty(ctx, meta.Name, "package name must be set")
	assert.NotEmpty(ctx, meta.Version, "package version must be set")
	return []string{i.Settings.TempDir, meta.Name, meta.Version}
}

// removeIfPresent removes a path, treating a missing path as success.
func (i *Installer) removeIfPresent(paths ...string) error {
	err := i.Files.Remove(paths...)
	if err == nil || shared.IsNotExist(err) || errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
		return nil
	}
	return err
}

func orderedVersions(name string, versions types.VersionedPackage) ([]string, error) {
	keys := make([]string, 0, len(versions))
	for version := range versions {
		keys = append(keys, version)
	}
	if len(keys) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no versions available for %s", name))
	}
	return SortVersionsDescending(keys)
}

// localSegments strips the "<name>/<version>/" prefix from a remote file
// path and returns the remaining segments.
func localSegments(remote string, prefix string) ([]string, error) {
	if !strings.HasPrefix(remote, prefix) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package file %s is outside %s", remote, prefix))
	}
	segments := shared.SplitRelative(strings.TrimPrefix(remote, prefix))
	if len(segments) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package file %s has no relative path", remote))
	}
	for _, segment := range segments {
		if segment == ".." {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package file %s escapes the package root", remote))
		}
	}
	return segments, nil
}

func validatePackageMetadata(meta types.PackageMetadata) error {
	fields := []struct {
		name  string
		value string
	}{
		{name: "name", value: meta.Name},
		{name: "version", value: meta.Version},
	}
	for _, field := range fields {
		value := field.value
		if strings.TrimSpace(value) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s is empty", field.name))
		}
		if value == "." || value == ".." || strings.ContainsAny(value, `/\`) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s %q is not a valid path segment", field.name, value))
		}
	}
	return nil
}

func joinPath(base []string, extra ...string) string {
	return filepath.Join(append(append([]string(nil), base...), extra...)...)
}

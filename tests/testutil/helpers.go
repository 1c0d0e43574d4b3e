// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"azimuth-installer/internal/types"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// FixturePackage is one package version published by WriteBucket. Files
// maps paths relative to the version folder to their content.
type FixturePackage struct {
	Meta  types.PackageMetadata
	Files map[string]string
}

// WriteBucket lays out root/bucket the way the catalog bucket is
// organized and returns the bucket directory.
func WriteBucket(t *testing.T, root string, bucket string, packages []FixturePackage) string {
	t.Helper()
	bucketDir := filepath.Join(root, bucket)
	catalog := types.RepositoryMetadata{}
	for _, pkg := range packages {
		name, version := pkg.Meta.Name, pkg.Meta.Version
		if catalog[name] == nil {
			catalog[name] = types.VersionedPackage{}
		}
		catalog[name][version] = pkg.Meta

		versionDir := filepath.Join(bucketDir, name, version)
		listing := types.PackageFiles{}
		for rel, content := range pkg.Files {
			path := filepath.Join(versionDir, filepath.FromSlash(rel))
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			listing.Files = append(listing.Files, name+"/"+version+"/"+rel)
		}
		writeJSON(t, filepath.Join(versionDir, types.PackageFilesFile), listing)
		writeJSON(t, filepath.Join(versionDir, types.PackageMetadataFile), pkg.Meta)
	}
	writeJSON(t, filepath.Join(bucketDir, types.RepositoryMetadataFile), catalog)
	return bucketDir
}

// SecretsFixture returns two versions of a small package used across
// the end-to-end suites.
func SecretsFixture() []FixturePackage {
	var out []FixturePackage
	for _, version := range []string{"1.0.2", "1.0.3"} {
		out = append(out, FixturePackage{
			Meta: types.PackageMetadata{
				Name:            "azimuth-secrets",
				Version:         version,
				Author:          "platform",
				Repository:      "https://example.com/azimuth-secrets.git",
				SourceDirectory: "dist",
			},
			Files: map[string]string{
				"index.ts":      "export * from './lib/client';\n",
				"lib/client.ts": "export const version = '" + version + "';\n",
			},
		})
	}
	return out
}

func writeJSON(t *testing.T, path string, value any) {
	t.Helper()
	data, err := json.MarshalIndent(value, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

package app

import (
	"context"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ListInstalled reports the packages recorded in the project manifest,
// sorted by name. A project without a manifest has nothing installed.
func (s Service) ListInstalled(ctx context.Context, req ListRequest) (ListResult, error) {
	installer, err := s.newInstaller(StorageOptions{}, req.Project, nil, nil)
	if err != nil {
		return ListResult{}, err
	}
	if err := installer.LoadProjectMetadata(ctx); err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
			return ListResult{}, nil
		}
		return ListResult{}, err
	}
	manifest := installer.ProjectMetadata()
	names := make([]string, 0, len(manifest.Packages))
	for name := range manifest.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	result := ListResult{}
	for _, name := range names {
		result.Packages = append(result.Packages, manifest.Packages[name])
	}
	return result, nil
}

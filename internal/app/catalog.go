package app

import "context"

func (s Service) Catalog(ctx context.Context, req CatalogRequest) (CatalogResult, error) {
	storage, closeStorage, err := s.storageFor(ctx, req.Storage)
	if err != nil {
		return CatalogResult{}, err
	}
	defer closeStorage()

	installer, err := s.newInstaller(req.Storage, ProjectOptions{}, storage, s.Prompter)
	if err != nil {
		return CatalogResult{}, err
	}
	if err := installer.DownloadMetadata(ctx); err != nil {
		return CatalogResult{}, err
	}
	if err := installer.LoadMetadata(ctx); err != nil {
		return CatalogResult{}, err
	}
	entries, err := installer.Catalog()
	if err != nil {
		return CatalogResult{}, err
	}
	return CatalogResult{Packages: entries}, nil
}

package app

import "azimuth-installer/internal/types"

// StorageOptions selects and configures the remote catalog location.
type StorageOptions struct {
	Backend     string
	Bucket      string
	Account     string
	GCSEndpoint string
	SourceDir   string
	TempDir     string
}

// ProjectOptions locates the consuming project's generated artifacts.
type ProjectOptions struct {
	ProjectDir    string
	ReferencesDir string
	IndexFile     string
}

type InstallRequest struct {
	Storage StorageOptions
	Project ProjectOptions
	// Package and Version answer the corresponding prompt without asking.
	Package string
	Version string
}

type InstallResult struct {
	Package types.PackageMetadata
}

type CatalogRequest struct {
	Storage StorageOptions
}

type CatalogResult struct {
	Packages []types.CatalogEntry
}

type ListRequest struct {
	Project ProjectOptions
}

type ListResult struct {
	Packages []types.PackageMetadata
}

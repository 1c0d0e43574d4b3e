package types

type StorageBackend string

const (
	StorageBackendGCS   StorageBackend = "gcs"
	StorageBackendLocal StorageBackend = "local"
)

const (
	RepositoryMetadataFile = "repository-metadata.json"
	PackageFilesFile       = "package-files.json"
	PackageMetadataFile    = "package-metadata.json"
	ProjectMetadataFile    = "project-metadata.json"
)

const (
	DefaultBucket        = "azimuth-packages"
	DefaultReferencesDir = "src/service-references"
	DefaultIndexFile     = "index.ts"
	DefaultTempDirName   = "azimuth-packages"
)

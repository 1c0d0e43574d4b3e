package types

// PackageMetadata identifies one installable package version.
type PackageMetadata struct {
	Name            string `json:"name" yaml:"name"`
	ImportName      string `json:"importName,omitempty" yaml:"import_name,omitempty"`
	Version         string `json:"version" yaml:"version"`
	Author          string `json:"author" yaml:"author"`
	Repository      string `json:"repository" yaml:"repository"`
	SourceDirectory string `json:"directory" yaml:"directory"`
}

// SymbolSource returns the string the generated symbol name is derived from.
func (m PackageMetadata) SymbolSource() string {
	if m.ImportName != "" {
		return m.ImportName
	}
	return m.Name
}

// VersionedPackage maps a version string to the metadata published for it.
type VersionedPackage map[string]PackageMetadata

// RepositoryMetadata is the remote catalog keyed by package name.
type RepositoryMetadata map[string]VersionedPackage

// PackageFiles lists the remote object paths that make up one package version.
type PackageFiles struct {
	Files []string `json:"files"`
}

// ProjectMetadata records the packages installed into a project.
type ProjectMetadata struct {
	Packages map[string]PackageMetadata `json:"packages"`
}

package types

// CatalogEntry summarizes one catalog package and its versions, newest first.
type CatalogEntry struct {
	Name     string   `yaml:"name"`
	Versions []string `yaml:"versions"`
}

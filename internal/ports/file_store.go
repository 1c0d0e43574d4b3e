package ports

// FileStorePort is the local file system surface used by the installer.
// Path arguments given as segments are joined with the OS separator.
type FileStorePort interface {
	ReadText(paths ...string) (string, error)
	EnsureDir(paths ...string) error
	// EnsureFile creates an empty file, and its parent directories, when
	// the path does not exist yet.
	EnsureFile(paths ...string) error
	// Remove deletes a file or directory tree. Callers treat a missing
	// path as success.
	Remove(paths ...string) error
	CopyTree(src string, dst string) error
	WriteText(content string, paths ...string) error
	WorkingDirectory() string
}

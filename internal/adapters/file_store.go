package adapters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"

	"azimuth-installer/internal/ports"
	"azimuth-installer/internal/shared"
)

type FileStoreAdapter struct {
	Fs  afero.Fs
	Dir string
}

// NewFileStoreAdapter returns a file store over fs whose working directory
// is dir. An empty dir resolves to the process working directory.
func NewFileStoreAdapter(fs afero.Fs, dir string) (FileStoreAdapter, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return FileStoreAdapter{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to resolve working directory").
				WithCause(err)
		}
		dir = wd
	}
	return FileStoreAdapter{Fs: fs, Dir: dir}, nil
}

func (a FileStoreAdapter) WorkingDirectory() string {
	return a.Dir
}

func (a FileStoreAdapter) ReadText(paths ...string) (string, error) {
	path := filepath.Join(paths...)
	data, err := afero.ReadFile(a.Fs, path)
	if err != nil {
		if shared.IsNotExist(err) {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("file not found: %s", path)).
				WithCause(err)
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read %s", path)).
			WithCause(err)
	}
	return string(data), nil
}

func (a FileStoreAdapter) EnsureDir(paths ...string) error {
	path := filepath.Join(paths...)
	if err := a.Fs.MkdirAll(path, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create directory %s", path)).
			WithCause(err)
	}
	return nil
}

func (a FileStoreAdapter) EnsureFile(paths ...string) error {
	path := filepath.Join(paths...)
	info, err := a.Fs.Stat(path)
	if err == nil {
		if info.IsDir() {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("%s is a directory", path))
		}
		return nil
	}
	if !shared.IsNotExist(err) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to stat %s", path)).
			WithCause(err)
	}
	if err := a.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	file, err := a.Fs.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create %s", path)).
			WithCause(err)
	}
	return file.Close()
}

func (a FileStoreAdapter) Remove(paths ...string) error {
	path := filepath.Join(paths...)
	if err := a.Fs.RemoveAll(path); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to remove %s", path)).
			WithCause(err)
	}
	return nil
}

// CopyTree copies the contents of src into dst, merging with anything dst
// already holds.
func (a FileStoreAdapter) CopyTree(src string, dst string) error {
	err := afero.Walk(a.Fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return a.Fs.MkdirAll(target, 0o755)
		}
		return copyFile(a.Fs, path, a.Fs, target, info.Mode().Perm())
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to copy %s to %s", src, dst)).
			WithCause(err)
	}
	return nil
}

func (a FileStoreAdapter) WriteText(content string, paths ...string) error {
	path := filepath.Join(paths...)
	if err := afero.WriteFile(a.Fs, path, []byte(content), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", path)).
			WithCause(err)
	}
	return nil
}

func copyFile(srcFs afero.Fs, srcPath string, destFs afero.Fs, destPath string, perm os.FileMode) error {
	srcFile, err := srcFs.Open(srcPath)
	if err != nil {
		return err
	}
	defer srcFile.Close()
	if perm == 0 {
		perm = 0o644
	}
	destFile, err := destFs.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

var _ ports.FileStorePort = FileStoreAdapter{}

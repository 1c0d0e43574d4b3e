// Package shared provides common utility functions used across multiple
// packages in the azimuth-installer codebase.
package shared

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// RemotePath joins path segments and converts the result to the
// forward-slash form object storage expects, regardless of the local OS.
func RemotePath(parts ...string) string {
	return strings.ReplaceAll(filepath.Join(parts...), `\`, "/")
}

// IsNotExist reports whether err, or anything it wraps, signals a missing
// file or directory.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// SplitRelative splits a forward-slash relative path into segments,
// dropping empty ones produced by leading or doubled separators.
func SplitRelative(value string) []string {
	var out []string
	for _, part := range strings.Split(value, "/") {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Package fsutil provides small file system helpers.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension walks rootPath and returns the full paths of all
// files whose name ends with extension, sorted so callers get a stable
// order regardless of directory traversal.
func FindFilesByExtension(rootPath, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	}
	if err := filepath.WalkDir(rootPath, walk); err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// recursivelyWalkFileSystem will walk the file system, starting at the directory provided,
// and construct a map of all the files inside (including any inside of nested directories).
// Files whose paths are included in the 'known' map, or which the ignore function rejects,
// will NOT be included in the result.
// The key of the returned map is the path, and the value contains the FileInfo
func recursivelyWalkFileSystem(rootDirPath string, known map[string]struct{}, ignore func(string) bool) (map[string]fs.FileInfo, error) {
	foundItems := make(map[string]fs.FileInfo)
	err := filepath.WalkDir(rootDirPath, func(path string, dir fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if dir.IsDir() {
			if path != rootDirPath && ignore(path) {
				return filepath.SkipDir
			}

			return nil
		}

		if _, ok := known[path]; ok || ignore(path) || !dir.Type().IsRegular() {
			return nil
		}

		fileInfo, err := dir.Info()
		if err != nil {
			return err
		}

		foundItems[path] = fileInfo
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk file system: %w", err)
	}

	return foundItems, nil
}

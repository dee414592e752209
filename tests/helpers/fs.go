package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/gommon/random"
	"github.com/stretchr/testify/assert"
)

// TempDirWithFiles creates a temporary directory (cleaned up automatically when the
// test completes) containing one file per entry in files. Each file is given a
// random prefix, and is populated with some non-empty content.
func TempDirWithFiles(t *testing.T, files []string) (string, []string) {
	dirPath := t.TempDir()
	filePaths := make([]string, 0, len(files))
	for _, filename := range files {
		f, err := os.CreateTemp(dirPath, "*"+filename)
		assert.Nil(t, err, "failed to create temporary file in temporary dir")
		_, err = f.WriteString(random.String(64, random.Alphanumeric))
		assert.Nil(t, err, "failed to populate temporary file")
		assert.Nil(t, f.Close())

		filePaths = append(filePaths, f.Name())
	}

	assert.Len(t, filePaths, len(files), "Expected file paths recorded to match length of requested files")
	return dirPath, filePaths
}

// WriteExecutable writes a shell script with the body provided to the directory
// given, marking it as executable. The path to the script is returned.
func WriteExecutable(t *testing.T, dir string, name string, body string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755)
	assert.Nil(t, err, "failed to write executable %s", name)

	return path
}

package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ResolveDestination computes the output path for a conversion: the source
// path with its extension replaced by targetExtension, in the same directory.
// When that path already exists a counter suffix is appended before the
// extension ("name (1).ext", "name (2).ext", ...) and probed sequentially
// until a free path is found. The result is not reserved; callers that need
// exclusion across processes must hold the conversion lock first.
func ResolveDestination(sourcePath, targetExtension string) string {
	targetExtension = strings.TrimPrefix(strings.TrimSpace(targetExtension), ".")
	dir := filepath.Dir(sourcePath)
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}

	candidate := filepath.Join(dir, fmt.Sprintf("%s.%s", stem, targetExtension))
	if !pathExists(candidate) {
		return candidate
	}
	for counter := 1; ; counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d).%s", stem, counter, targetExtension))
		if !pathExists(candidate) {
			return candidate
		}
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	// Unreadable paths count as taken so we never hand out a destination we
	// cannot verify as free.
	return !errors.Is(err, fs.ErrNotExist)
}

// Package discovery finds video files for batch quality checks.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reelcheck/reelcheck/internal/util"
)

// Result contains discovered files plus skip metadata.
type Result struct {
	Files        []string
	SkippedCount int
}

// FindVideoFiles finds video files directly inside dir, skipping hidden
// files and non-video entries. Returns files sorted alphabetically by
// filename so batch order is stable.
func FindVideoFiles(dir string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(dir, name)
		if util.IsVideoFile(fullPath) {
			result.Files = append(result.Files, fullPath)
		} else {
			result.SkippedCount++
		}
	}

	if len(result.Files) == 0 {
		return nil, fmt.Errorf("no video files found in %s", dir)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(result.Files[i])) < strings.ToLower(filepath.Base(result.Files[j]))
	})

	return result, nil
}

package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"butler/internal/media"
)

// DiscoverMediaFiles lists the ingestable files directly inside dir,
// classified by extension. Subdirectories are not descended into.
func DiscoverMediaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := media.KindForPath(entry.Name()); !ok {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

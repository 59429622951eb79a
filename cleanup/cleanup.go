package cleanup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"shortsmith/config"
)

// Purge deletes the temporary assets of contentID under tempRoot and returns
// the number of files removed. A missing directory removes nothing.
func Purge(tempRoot, contentID string) (int, error) {
	if contentID == "" {
		return 0, fmt.Errorf("refusing to purge %s without a content id", tempRoot)
	}
	dir := filepath.Join(tempRoot, contentID)
	if filepath.Clean(dir) == filepath.Clean(tempRoot) {
		return 0, fmt.Errorf("refusing to purge %s itself", tempRoot)
	}

	count := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	config.Log.WithField("dir", dir).Infof("Removed %d temporary files", count)
	return count, nil
}

package storage

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// DatabaseFiles returns the database path plus its WAL sidecar paths, for
// disk usage accounting. Sidecars that do not exist are skipped by
// DiskUsageBytes.
func DatabaseFiles(dbPath string) []string {
	return []string{dbPath, dbPath + "-wal", dbPath + "-shm"}
}

// DiskUsageBytes sums the sizes of the named paths. A path may name a file
// or a directory, which is summed recursively. Empty and missing paths
// contribute nothing.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, path := range paths {
		if path == "" {
			continue
		}
		err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
			return nil
		})
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Package storage reports the on-disk footprint of the service's data files.
package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Usage is the size of each named data path and their sum.
type Usage struct {
	Files      map[string]int64 `json:"files"`
	TotalBytes int64            `json:"total_bytes"`
}

// DataUsage sizes each named path. A path may be a file or a directory (summed recursively).
// Missing and empty paths are reported as 0.
func DataUsage(paths map[string]string) (*Usage, error) {
	u := &Usage{Files: make(map[string]int64, len(paths))}
	for name, p := range paths {
		n, err := DiskUsageBytes(p)
		if err != nil {
			return nil, err
		}
		u.Files[name] = n
		u.TotalBytes += n
	}
	return u, nil
}

// DiskUsageBytes returns the total size in bytes of the given paths.
// Missing or empty paths contribute 0; errors during a directory walk are returned.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
			continue
		}
		n, err := dirSize(p)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

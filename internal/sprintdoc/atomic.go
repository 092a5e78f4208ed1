package sprintdoc

import (
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to a file atomically by writing to a temporary
// file first and then renaming it to the target path. This prevents
// corruption of the backlog document from a crash mid-write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

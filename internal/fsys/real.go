package fsys

import (
	"os"
	"path/filepath"
)

// RealFS is the default FS: the host's actual disk.
type RealFS struct{}

func NewRealFS() RealFS { return RealFS{} }

func (RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (RealFS) ReadDir(path string) (map[string]EntryKind, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	result := make(map[string]EntryKind, len(entries))
	for _, e := range entries {
		kind := FileEntry
		if e.IsDir() {
			kind = DirEntry
		}
		result[e.Name()] = kind
	}
	return result, nil
}

func (RealFS) Abs(path string) (string, error)       { return filepath.Abs(path) }
func (RealFS) Rel(base, target string) (string, error) { return filepath.Rel(base, target) }
func (RealFS) Join(parts ...string) string            { return filepath.Join(parts...) }
func (RealFS) Dir(path string) string                 { return filepath.Dir(path) }
func (RealFS) Base(path string) string                { return filepath.Base(path) }
func (RealFS) Ext(path string) string                 { return filepath.Ext(path) }

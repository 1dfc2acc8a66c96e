package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend stores every collection as <Dir>/<name>.json.
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{Dir: dir}
}

func (b *FileBackend) Path(name string) string {
	return filepath.Join(b.Dir, name+".json")
}

func (b *FileBackend) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCollectionMissing, b.Path(name))
	}
	return data, err
}

// Write goes through a temp file in the same directory and a rename, so a
// reader opens either the previous file or the complete new one.
func (b *FileBackend) Write(name string, data []byte) error {
	if err := os.MkdirAll(b.Dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.Dir, name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, b.Path(name))
}

func (b *FileBackend) Init(name string) error {
	_, err := os.Stat(b.Path(name))
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return b.Write(name, []byte("[]\n"))
}

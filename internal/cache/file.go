package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps blobs under root/<namespace>/<parts...>/<file>
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at root
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the cache root directory
func (s *FileStore) Root() string {
	return s.root
}

// Location returns the file path for key
func (s *FileStore) Location(key Key) string {
	segments := append([]string{s.root, filepath.FromSlash(key.Namespace)}, key.Parts...)
	return filepath.Join(append(segments, key.File)...)
}

// Get reads the blob for key
func (s *FileStore) Get(_ context.Context, key Key) ([]byte, error) {
	data, err := os.ReadFile(s.Location(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &Error{Message: fmt.Sprintf("failed to read %s", key), Cause: err}
	}
	return data, nil
}

// Put writes the blob via a temp file and rename so readers never see partial content
func (s *FileStore) Put(_ context.Context, key Key, data []byte) error {
	path := s.Location(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Error{Message: fmt.Sprintf("failed to create cache dir %s", dir), Cause: err}
	}

	tmp, err := os.CreateTemp(dir, "."+key.File+".*")
	if err != nil {
		return &Error{Message: "failed to create temp file", Cause: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &Error{Message: fmt.Sprintf("failed to write %s", key), Cause: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &Error{Message: fmt.Sprintf("failed to close %s", key), Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return &Error{Message: fmt.Sprintf("failed to commit %s", key), Cause: err}
	}
	return nil
}

// Delete removes the blob for key; a missing blob is not an error
func (s *FileStore) Delete(_ context.Context, key Key) error {
	if err := os.Remove(s.Location(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Message: fmt.Sprintf("failed to delete %s", key), Cause: err}
	}
	return nil
}

// Keys walks a namespace and returns every key whose file name matches file.
// The namespace layout is <namespace>/<a>/<b>/<file>.
func (s *FileStore) Keys(namespace, file string) ([]Key, error) {
	base := filepath.Join(s.root, filepath.FromSlash(namespace))
	firstLevel, err := os.ReadDir(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &Error{Message: fmt.Sprintf("failed to list %s", base), Cause: err}
	}

	var keys []Key
	for _, a := range firstLevel {
		if !a.IsDir() {
			continue
		}
		secondLevel, err := os.ReadDir(filepath.Join(base, a.Name()))
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("failed to list %s", a.Name()), Cause: err}
		}
		for _, b := range secondLevel {
			if !b.IsDir() {
				continue
			}
			key := Key{Namespace: namespace, Parts: []string{a.Name(), b.Name()}, File: file}
			if _, err := os.Stat(s.Location(key)); err == nil {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

// Clear removes a whole namespace and reports whether anything existed
func (s *FileStore) Clear(namespace string) (bool, error) {
	base := filepath.Join(s.root, filepath.FromSlash(namespace))
	if _, err := os.Stat(base); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.RemoveAll(base); err != nil {
		return false, &Error{Message: fmt.Sprintf("failed to clear %s", base), Cause: err}
	}
	return true, nil
}

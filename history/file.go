package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileBackend keeps all keys in one JSON document on disk. Values must be
// valid JSON.
type FileBackend struct {
	mu       sync.Mutex
	filename string
}

func NewFileBackend(filename string) *FileBackend {
	return &FileBackend{filename: filename}
}

func (b *FileBackend) read() (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage)

	bytes, err := os.ReadFile(b.filename)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read state file")
	}

	if err = json.Unmarshal(bytes, &values); err != nil {
		return nil, errors.Wrapf(err, "could not unmarshal state file %s", b.filename)
	}

	return values, nil
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.read()
	if err != nil {
		return nil, err
	}

	value, ok := values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Put rewrites the whole file through a temporary file and a rename.
func (b *FileBackend) Put(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return errors.Errorf("value for %s is not valid json", key)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.read()
	if err != nil {
		// a broken file gets replaced
		values = make(map[string]json.RawMessage)
	}
	values[key] = json.RawMessage(value)

	bytes, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not marshal state to json")
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.filename), filepath.Base(b.filename)+".*")
	if err != nil {
		return errors.Wrap(err, "could not create temporary state file")
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(bytes); err != nil {
		tmp.Close()
		return errors.Wrap(err, "could not write state file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "could not write state file")
	}

	return errors.Wrap(os.Rename(tmp.Name(), b.filename), "could not replace state file")
}

func (b *FileBackend) Close() error { return nil }

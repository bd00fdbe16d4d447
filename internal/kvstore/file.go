package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
)

// File is a Store persisted as one pretty-printed JSON object. The whole
// file is read on first use and rewritten on every mutation. An absent or
// corrupt file reads as empty.
//
// Concurrent processes sharing the same path are not supported.
type File struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	data   map[string]json.RawMessage
	loaded bool
}

func NewFile(path string, logger *zap.Logger) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{path: path, logger: logger}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) load() {
	if f.loaded {
		return
	}
	f.loaded = true
	f.data = make(map[string]json.RawMessage)

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("Cache unreadable, starting fresh", zap.String("path", f.path), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		f.logger.Warn("Cache corrupt, starting fresh", zap.String("path", f.path), zap.Error(err))
		f.data = make(map[string]json.RawMessage)
	}
}

func (f *File) flush(op string) error {
	out, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return errors.NewCacheError("encode cache file", op, f.path, err)
	}
	out = append(out, '\n')
	if err := WriteFileAtomic(f.path, out); err != nil {
		return errors.NewCacheError("write cache file", op, f.path, err)
	}
	return nil
}

func (f *File) Get(_ context.Context, key string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	v, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (f *File) Set(_ context.Context, key string, value json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	f.data[key] = bytes.Clone(value)
	return f.flush("set")
}

func (f *File) SetMany(_ context.Context, entries map[string]json.RawMessage) error {
	if len(entries) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	for k, v := range entries {
		f.data[k] = bytes.Clone(v)
	}
	return f.flush("set_many")
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.load()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.flush("delete")
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = true
	f.data = make(map[string]json.RawMessage)
	return f.flush("clear")
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, creating parent directories as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0644); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}

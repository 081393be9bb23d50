package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"freightbill/internal/logger"
)

// FileBackend keeps state in a single JSON document.
type FileBackend struct {
	path string
	log  zerolog.Logger
}

// NewFileBackend creates a JSON file backend at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{
		path: path,
		log:  logger.WithComponent("storage-json"),
	}
}

// Load reads the state file. A missing file yields the empty state.
func (b *FileBackend) Load(ctx context.Context) (*State, error) {
	const op = "Load"

	if err := ctx.Err(); err != nil {
		return nil, wrap(op, b.path, err)
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		b.log.Debug().Str("path", b.path).Msg("No state file, starting empty")
		return NewState(), nil
	}
	if err != nil {
		return nil, wrap(op, b.path, err)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, wrap(op, b.path, err)
	}

	b.log.Debug().
		Str("path", b.path).
		Int("bookings", len(s.Bookings)).
		Msg("State loaded")
	return s, nil
}

// Save writes the state through a temporary file and rename.
func (b *FileBackend) Save(ctx context.Context, s *State) error {
	const op = "Save"

	if err := ctx.Err(); err != nil {
		return wrap(op, b.path, err)
	}

	data, err := Encode(s)
	if err != nil {
		return wrap(op, b.path, err)
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, ".freightbill-*.json")
	if err != nil {
		return wrap(op, b.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return wrap(op, b.path, err)
	}
	if err := tmp.Close(); err != nil {
		return wrap(op, b.path, err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return wrap(op, b.path, err)
	}

	b.log.Debug().
		Str("path", b.path).
		Int("bookings", len(s.Bookings)).
		Msg("State saved")
	return nil
}

// Close is a no-op for file storage.
func (b *FileBackend) Close() error { return nil }

package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileDocumentStore keeps one JSON file per key inside Dir.
type FileDocumentStore struct {
	Log *zap.Logger
	Dir string
}

func NewFileDocumentStore(zap *zap.Logger, dir string) (*FileDocumentStore, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &FileDocumentStore{
		Log: zap,
		Dir: dir,
	}, nil
}

func (store *FileDocumentStore) path(key string) string {
	return filepath.Join(store.Dir, key+".json")
}

func (store *FileDocumentStore) Load(ctx context.Context, key string) ([]byte, error) {
	body, err := os.ReadFile(store.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	return body, nil
}

// Save writes to a temp file in the same directory and renames it over
// the target, so a crash never leaves a half written document behind.
func (store *FileDocumentStore) Save(ctx context.Context, key string, body []byte) error {
	tmp, err := os.CreateTemp(store.Dir, key+".*.tmp")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	_, err = tmp.Write(body)
	if err != nil {
		_ = tmp.Close()
		return err
	}

	err = tmp.Sync()
	if err != nil {
		_ = tmp.Close()
		return err
	}

	err = tmp.Close()
	if err != nil {
		return err
	}

	err = os.Rename(tmpName, store.path(key))
	if err != nil {
		return err
	}

	committed = true

	store.Log.Debug("document saved", zap.String("key", key), zap.Int("bytes", len(body)))

	return nil
}

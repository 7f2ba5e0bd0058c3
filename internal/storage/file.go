package storage

import (
	"context"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
)

// FileStore keeps each slot as <dir>/<slot>/state.yaml.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// the first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) Save(ctx context.Context, slot string, s *models.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSlot(slot); err != nil {
		return err
	}
	return s.Save(f.dir, slot)
}

func (f *FileStore) Load(ctx context.Context, slot string) (*models.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	return models.LoadState(f.dir, slot)
}

func (f *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return models.ListStates(f.dir)
}

func (f *FileStore) Delete(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSlot(slot); err != nil {
		return err
	}
	return models.DeleteState(f.dir, slot)
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }

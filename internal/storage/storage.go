// Package storage persists game sessions in named save slots.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
)

// ErrNotFound is returned when a save slot does not exist.
var ErrNotFound = models.ErrNoSave

// ErrInvalidSlot is returned for slot names that cannot be stored.
var ErrInvalidSlot = errors.New("invalid save slot")

// Store saves and restores game states by slot name.
type Store interface {
	Save(ctx context.Context, slot string, s *models.GameState) error
	Load(ctx context.Context, slot string) (*models.GameState, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

func checkSlot(slot string) error {
	if strings.TrimSpace(slot) == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}

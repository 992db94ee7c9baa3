package store

import (
	"context"
	"errors"
	"time"

	"github.com/voxrelay/voxrelay/internal/models"
)

// ErrNotFound is returned when an audio id is unknown or already evicted.
var ErrNotFound = errors.New("audio not found")

// AudioStore holds generated audio artifacts for the retention window.
// Records are written once and never mutated; Sweep is the only path that
// removes them before process exit.
type AudioStore interface {
	Put(ctx context.Context, record *models.AudioRecord) error
	Get(ctx context.Context, id string) (*models.AudioRecord, error)
	Delete(ctx context.Context, id string) error

	// Sweep removes every record whose GeneratedAt is older than the
	// retention window relative to now, returning how many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)

	Count(ctx context.Context) (int, error)
}

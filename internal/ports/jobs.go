package ports

import (
	"context"
	"errors"

	"autotube/internal/models"
)

// ErrJobNotFound is returned by JobStore.Get and JobStore.Update for unknown ids.
var ErrJobNotFound = errors.New("job not found")

// JobStore persists VideoJob documents. Ids are assigned by the store and opaque to callers.
type JobStore interface {
	// Driver names the backing technology (memory, postgres, redis, mongo).
	Driver() string

	// Create stores job and returns its new id. CreatedAt/UpdatedAt are set by the store.
	Create(ctx context.Context, job *models.VideoJob) (string, error)
	Get(ctx context.Context, id string) (*models.VideoJob, error)
	// Update writes only the non-nil fields of patch.
	Update(ctx context.Context, id string, patch models.JobUpdate) error
	// List returns up to limit jobs, newest first.
	List(ctx context.Context, limit int) ([]models.VideoJob, error)

	Ping(ctx context.Context) error
}

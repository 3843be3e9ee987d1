package repositories

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"autotube/internal/models"
	"autotube/internal/ports"
)

// MemoryJobStore keeps jobs in process memory. Used for local runs and tests.
type MemoryJobStore struct {
	mu    sync.RWMutex
	jobs  map[string]*models.VideoJob
	order []string
	newID func() string
	now   func() time.Time
}

// NewMemoryJobStore returns an empty store. newID defaults to random UUIDs.
func NewMemoryJobStore(newID func() string) *MemoryJobStore {
	if newID == nil {
		newID = uuid.NewString
	}
	return &MemoryJobStore{
		jobs:  make(map[string]*models.VideoJob),
		newID: newID,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryJobStore) Driver() string { return "memory" }

func (s *MemoryJobStore) Create(ctx context.Context, job *models.VideoJob) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	now := s.now()
	job.ID = id
	job.CreatedAt = now
	job.UpdatedAt = now

	s.jobs[id] = cloneJob(job)
	s.order = append(s.order, id)
	return id, nil
}

func (s *MemoryJobStore) Get(ctx context.Context, id string) (*models.VideoJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ports.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (s *MemoryJobStore) Update(ctx context.Context, id string, patch models.JobUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ports.ErrJobNotFound
	}
	if patch.IsEmpty() {
		return nil
	}
	patch.Apply(job)
	job.UpdatedAt = s.now()
	return nil
}

func (s *MemoryJobStore) List(ctx context.Context, limit int) ([]models.VideoJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.VideoJob, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *cloneJob(s.jobs[s.order[i]]))
	}
	return out, nil
}

func (s *MemoryJobStore) Ping(ctx context.Context) error { return nil }

func cloneJob(j *models.VideoJob) *models.VideoJob {
	c := *j
	c.Keywords = slices.Clone(j.Keywords)
	c.Outline = slices.Clone(j.Outline)
	c.AudioURL = cloneStr(j.AudioURL)
	c.ThumbnailURL = cloneStr(j.ThumbnailURL)
	c.YouTubeURL = cloneStr(j.YouTubeURL)
	c.UploadStatus = cloneStr(j.UploadStatus)
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

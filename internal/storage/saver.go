package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/csams/rhymer/internal/models"
)

// CompositionWriter persists a single composition
type CompositionWriter interface {
	SaveComposition(ctx context.Context, c *models.Composition) error
}

// Saver is a write-behind layer for compositions. Records whose save failed
// stay pending in memory and are retried on every later Save or Flush.
type Saver struct {
	mu      sync.Mutex
	writer  CompositionWriter
	pending map[string]*models.Composition
	logger  *zap.Logger
}

// NewSaver creates a saver writing through w
func NewSaver(w CompositionWriter, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{
		writer:  w,
		pending: make(map[string]*models.Composition),
		logger:  logger,
	}
}

// Save queues a copy of c and writes every pending composition. The error
// joins all failed writes; failed records remain pending.
func (s *Saver) Save(ctx context.Context, c *models.Composition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := *c
	snapshot.Chords = slices.Clone(c.Chords)
	s.pending[c.ID] = &snapshot
	return s.flushUnsafe(ctx)
}

// Flush retries every pending composition
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushUnsafe(ctx)
}

// Pending returns the IDs still waiting to be written, sorted
func (s *Saver) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Recover returns the latest unsaved copy of a composition, if any
func (s *Saver) Recover(id string) (*models.Composition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.pending[id]
	if !ok {
		return nil, false
	}
	copied := *c
	copied.Chords = slices.Clone(c.Chords)
	return &copied, true
}

func (s *Saver) flushUnsafe(ctx context.Context) error {
	var errs []error
	for id, c := range s.pending {
		if err := s.writer.SaveComposition(ctx, c); err != nil {
			s.logger.Warn("Failed to save composition, keeping it pending",
				zap.String("id", id), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		delete(s.pending, id)
	}
	return errors.Join(errs...)
}

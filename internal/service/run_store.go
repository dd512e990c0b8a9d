package service

import (
	"sync"
	"time"

	"github.com/acadops/timetable-api/internal/models"
)

// runStore holds generated runs in memory until they expire or the process
// restarts. Saving a run to the database is a separate, explicit step.
type runStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*models.TimetableRun
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{
		ttl:   ttl,
		items: make(map[string]*models.TimetableRun),
	}
}

func (s *runStore) Save(run *models.TimetableRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[run.ID] = run
}

func (s *runStore) Get(id string) (*models.TimetableRun, bool) {
	s.mu.RLock()
	run, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(run.CreatedAt) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	return run, true
}

func (s *runStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

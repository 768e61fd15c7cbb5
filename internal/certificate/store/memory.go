// Package store persists the certificate history ledger.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bankeu/internal/certificate/models"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
)

// InMemory is the ledger backing for tests and local runs. One mutex
// stands in for the advisory lock.
type InMemory struct {
	mu       sync.RWMutex
	nextID   int64
	subjects map[models.Subject][]*models.Entry
	codes    map[string]*models.Entry
}

func NewInMemory() *InMemory {
	return &InMemory{
		subjects: make(map[models.Subject][]*models.Entry),
		codes:    make(map[string]*models.Entry),
	}
}

func (s *InMemory) Issue(_ context.Context, e *models.Entry) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.codes[e.Code]; taken {
		return nil, fmt.Errorf("insert certificate %s: %w", e.Code, sentinel.ErrConflict)
	}
	subject := e.Subject()
	var superseded []string
	for _, prev := range s.subjects[subject] {
		if prev.IsLatest {
			prev.IsLatest = false
			superseded = append(superseded, prev.Code)
		}
	}
	s.nextID++
	e.ID = domain.HistoryID(s.nextID)
	e.Version = len(s.subjects[subject]) + 1
	e.IsLatest = true
	stored := e.Clone()
	s.subjects[subject] = append(s.subjects[subject], stored)
	s.codes[e.Code] = stored
	return superseded, nil
}

func (s *InMemory) FindByCode(_ context.Context, code string) (*models.Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.codes[code]
	if !ok {
		return nil, fmt.Errorf("certificate %s: %w", code, sentinel.ErrNotFound)
	}
	return models.Verified(e), nil
}

func (s *InMemory) History(_ context.Context, subject models.Subject) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.subjects[subject]
	out := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

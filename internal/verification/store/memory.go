package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bankeu/internal/verification/models"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
)

type submissionKey struct {
	proposal domain.ProposalID
	entry    domain.RosterEntryID
}

// InMemory mirrors the Postgres store, including its unique indexes.
type InMemory struct {
	mu          sync.RWMutex
	nextEntry   domain.RosterEntryID
	nextSub     int64
	entries     map[domain.RosterEntryID]*models.RosterEntry
	submissions map[submissionKey]*models.Submission
}

func NewInMemory() *InMemory {
	return &InMemory{
		entries:     make(map[domain.RosterEntryID]*models.RosterEntry),
		submissions: make(map[submissionKey]*models.Submission),
	}
}

// slotTaken applies the two partial unique indexes of verifier_roster.
func (s *InMemory) slotTaken(e *models.RosterEntry) bool {
	if !e.Active {
		return false
	}
	for _, other := range s.entries {
		if other.ID == e.ID || !other.Active || other.DistrictID != e.DistrictID || other.Role != e.Role {
			continue
		}
		if !e.Scoped() && !other.Scoped() && e.Role.Leader() {
			return true
		}
		if e.Scoped() && other.ProposalID == e.ProposalID {
			return true
		}
	}
	return false
}

func (s *InMemory) CreateEntry(_ context.Context, e *models.RosterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slotTaken(e) {
		return fmt.Errorf("insert roster entry: slot already taken: %w", sentinel.ErrConflict)
	}
	s.nextEntry++
	e.ID = s.nextEntry
	s.entries[e.ID] = e.Clone()
	return nil
}

func (s *InMemory) UpdateEntry(_ context.Context, e *models.RosterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.entries[e.ID]
	if !ok || cur.DistrictID != e.DistrictID {
		return fmt.Errorf("roster entry %s: %w", e.ID, sentinel.ErrNotFound)
	}
	if s.slotTaken(e) {
		return fmt.Errorf("update roster entry: slot already taken: %w", sentinel.ErrConflict)
	}
	next := e.Clone()
	next.CreatedAt = cur.CreatedAt
	s.entries[e.ID] = next
	return nil
}

func (s *InMemory) FindEntry(_ context.Context, id domain.RosterEntryID) (*models.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("roster entry %s: %w", id, sentinel.ErrNotFound)
	}
	return e.Clone(), nil
}

func (s *InMemory) ListEntries(_ context.Context, district domain.DistrictID, activeOnly bool) ([]*models.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.RosterEntry
	for _, e := range s.entries {
		if e.DistrictID != district || (activeOnly && !e.Active) {
			continue
		}
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) UpsertSubmission(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[sub.RosterEntryID]; !ok {
		return fmt.Errorf("proposal or roster entry: %w", sentinel.ErrNotFound)
	}
	key := submissionKey{sub.ProposalID, sub.RosterEntryID}
	if cur, ok := s.submissions[key]; ok {
		sub.ID = cur.ID
	} else {
		s.nextSub++
		sub.ID = s.nextSub
	}
	s.submissions[key] = sub.Clone()
	return nil
}

func (s *InMemory) ListSubmissions(_ context.Context, proposal domain.ProposalID) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Submission
	for key, sub := range s.submissions {
		if key.proposal == proposal {
			out = append(out, sub.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RosterEntryID < out[j].RosterEntryID })
	return out, nil
}

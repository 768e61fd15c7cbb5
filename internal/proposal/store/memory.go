package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bankeu/internal/proposal/models"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded proposal store for tests and local runs.
// Values are cloned on the way in and out.
type InMemory struct {
	mu        sync.RWMutex
	nextID    domain.ProposalID
	proposals map[domain.ProposalID]*models.Proposal
	villages  map[domain.VillageID]domain.DistrictID
	decisions []*models.Decision
}

func NewInMemory() *InMemory {
	return &InMemory{
		proposals: make(map[domain.ProposalID]*models.Proposal),
		villages:  make(map[domain.VillageID]domain.DistrictID),
	}
}

// AddVillage registers a village and its district.
func (s *InMemory) AddVillage(village domain.VillageID, district domain.DistrictID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.villages[village] = district
}

func (s *InMemory) VillageDistrict(_ context.Context, village domain.VillageID) (domain.DistrictID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	district, ok := s.villages[village]
	if !ok {
		return 0, fmt.Errorf("village %s: %w", village, sentinel.ErrNotFound)
	}
	return district, nil
}

func (s *InMemory) Create(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	district, ok := s.villages[p.VillageID]
	if !ok {
		return fmt.Errorf("village %s: %w", p.VillageID, sentinel.ErrNotFound)
	}
	s.nextID++
	p.ID = s.nextID
	p.DistrictID = district
	s.proposals[p.ID] = p.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ProposalID) (*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", id, sentinel.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *InMemory) CompareAndSwap(_ context.Context, expected models.State, next *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.proposals[next.ID]
	if !ok {
		return fmt.Errorf("proposal %s: %w", next.ID, sentinel.ErrNotFound)
	}
	if cur.State != expected {
		return fmt.Errorf("proposal %s: %w", next.ID, sentinel.ErrStateChanged)
	}
	updated := next.Clone()
	updated.Certificate = cur.Certificate
	s.proposals[next.ID] = updated
	return nil
}

// Put stores p as-is, bypassing the workflow guards. Test fixtures only.
func (s *InMemory) Put(p *models.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID > s.nextID {
		s.nextID = p.ID
	}
	s.proposals[p.ID] = p.Clone()
}

func (s *InMemory) awaitingReview(village domain.VillageID) []*models.Proposal {
	var out []*models.Proposal
	for _, p := range s.proposals {
		if p.VillageID == village && p.AwaitingKecamatanReview() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *InMemory) ListAwaitingReview(_ context.Context, village domain.VillageID) ([]*models.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Proposal
	for _, p := range s.awaitingReview(village) {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *InMemory) ForwardToDPMD(_ context.Context, village domain.VillageID, expected []domain.ProposalID, now time.Time) ([]domain.ProposalID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.awaitingReview(village)
	for _, p := range set {
		if len(p.ForwardBlockers()) > 0 {
			set = nil
			break
		}
	}
	ids := idsOf(set)
	if !sameIDs(ids, expected) {
		return nil, fmt.Errorf("village %s: %w", village, sentinel.ErrStateChanged)
	}
	for _, p := range set {
		p.ApplyForwardToDPMD(now)
	}
	return ids, nil
}

func (s *InMemory) ReturnToVillage(_ context.Context, village domain.VillageID, expected []domain.ProposalID, now time.Time) ([]domain.ProposalID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.awaitingReview(village)
	ids := idsOf(set)
	if !sameIDs(ids, expected) {
		return nil, fmt.Errorf("village %s: %w", village, sentinel.ErrStateChanged)
	}
	for _, p := range set {
		p.ApplyReturnToVillage(now)
	}
	return ids, nil
}

func idsOf(ps []*models.Proposal) []domain.ProposalID {
	ids := make([]domain.ProposalID, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *InMemory) LinkCertificate(_ context.Context, id domain.ProposalID, link models.CertificateLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return fmt.Errorf("proposal %s: %w", id, sentinel.ErrNotFound)
	}
	p.Certificate = link
	if link.IssuedAt != nil {
		p.UpdatedAt = *link.IssuedAt
	}
	return nil
}

func (s *InMemory) AppendDecision(_ context.Context, d *models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	cp.ID = int64(len(s.decisions) + 1)
	d.ID = cp.ID
	s.decisions = append(s.decisions, &cp)
	return nil
}

func (s *InMemory) ListDecisions(_ context.Context, id domain.ProposalID) ([]*models.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Decision
	for _, d := range s.decisions {
		if d.ProposalID == id {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

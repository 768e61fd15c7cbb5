package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankeu/internal/certificate/models"
	"bankeu/pkg/domain"
	"bankeu/pkg/platform/sentinel"
	"bankeu/pkg/testutil"
)

func entry(code string, activity domain.OptionalActivity) *models.Entry {
	return &models.Entry{ProposalID: 11, VillageID: 7, DistrictID: 2, Activity: activity, Code: code,
		IssuedBy: 3, IssuedAt: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func TestInMemoryIssueSupersedes(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	activity := domain.SomeActivity(3)

	superseded, err := s.Issue(ctx, entry("BA-1", activity))
	require.NoError(t, err)
	assert.Empty(t, superseded)

	second := entry("BA-2", activity)
	superseded, err = s.Issue(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, []string{"BA-1"}, superseded)
	assert.Equal(t, 2, second.Version)

	blanket := entry("BA-3", domain.OptionalActivity{})
	_, err = s.Issue(ctx, blanket)
	require.NoError(t, err)
	assert.Equal(t, 1, blanket.Version, "blanket certificates are their own subject")

	history, err := s.History(ctx, models.Subject{VillageID: 7, Activity: activity})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Version)
	assert.True(t, history[0].IsLatest)
	assert.False(t, history[1].IsLatest)

	old, err := s.FindByCode(ctx, "BA-1")
	require.NoError(t, err)
	assert.True(t, old.Valid)
	assert.False(t, old.IsLatest)

	_, err = s.FindByCode(ctx, "BA-404")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = s.Issue(ctx, entry("BA-2", activity))
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestInMemoryConcurrentIssueKeepsOneLatest(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	activity := domain.SomeActivity(3)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Issue(ctx, entry(fmt.Sprintf("BA-%d", i), activity))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := s.History(ctx, models.Subject{VillageID: 7, Activity: activity})
	require.NoError(t, err)
	require.Len(t, history, 20)
	latest := 0
	for i, e := range history {
		assert.Equal(t, 20-i, e.Version)
		if e.IsLatest {
			latest++
		}
	}
	assert.Equal(t, 1, latest)
	assert.True(t, history[0].IsLatest)
}

func TestInMemoryReissueKeepsOldCodeVerifiable(t *testing.T) {
	ctx := context.Background()
	activity := domain.SomeActivity(5)

	testutil.Given(t, "a certificate already issued for the subject", func(t *testing.T) {
		s := NewInMemory()
		_, err := s.Issue(ctx, entry("BA-OLD", activity))
		require.NoError(t, err)

		testutil.When(t, "the subject is reissued", func(t *testing.T) {
			superseded, err := s.Issue(ctx, entry("BA-NEW", activity))
			require.NoError(t, err)
			require.Equal(t, []string{"BA-OLD"}, superseded)

			testutil.Then(t, "both codes verify and only the new one is latest", func(t *testing.T) {
				old, err := s.FindByCode(ctx, "BA-OLD")
				require.NoError(t, err)
				assert.True(t, old.Valid)
				assert.False(t, old.IsLatest)
				assert.Equal(t, 1, old.Version)

				latest, err := s.FindByCode(ctx, "BA-NEW")
				require.NoError(t, err)
				assert.True(t, latest.IsLatest)
				assert.Equal(t, 2, latest.Version)
			})
		})
	})
}

func TestInMemoryHistoryIsImmutable(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	yes := true
	e := entry("BA-1", domain.SomeActivity(3))
	e.Checklist.Items[0] = &yes
	_, err := s.Issue(ctx, e)
	require.NoError(t, err)

	*e.Checklist.Items[0] = false
	history, err := s.History(ctx, e.Subject())
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Checklist.Items[0])
	assert.True(t, *history[0].Checklist.Items[0])

	*history[0].Checklist.Items[0] = false
	again, err := s.History(ctx, e.Subject())
	require.NoError(t, err)
	assert.True(t, *again[0].Checklist.Items[0])
}

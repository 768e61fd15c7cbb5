package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "bankeu/pkg/platform/audit"
	"bankeu/pkg/platform/audit/store/memory"
	"bankeu/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("outbox unavailable")
}

func TestPublisher_Emit(t *testing.T) {
	t.Run("fills timestamp and request id from context", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := New(store)
		now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(context.Background(), now)
		ctx = requestcontext.WithRequestID(ctx, "req-1")

		err := pub.Emit(ctx, audit.Event{Type: audit.EventDinasApproved, ActorID: 9, ProposalID: 3})
		require.NoError(t, err)

		events, err := store.ListByProposal(ctx, 3)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, now, events[0].Timestamp)
		assert.Equal(t, "req-1", events[0].RequestID)
	})

	t.Run("rejects events without actor", func(t *testing.T) {
		pub := New(memory.NewInMemoryStore())
		err := pub.Emit(context.Background(), audit.Event{Type: audit.EventDinasApproved})
		require.Error(t, err)
	})

	t.Run("store failure fails the caller and counts", func(t *testing.T) {
		m := NewMetrics(prometheus.NewRegistry())
		pub := New(failingStore{}, WithMetrics(m))

		err := pub.Emit(context.Background(), audit.Event{Type: audit.EventCertificateIssued, ActorID: 1})
		require.Error(t, err)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistFailures))
	})
}

package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	auditpg "bankeu/pkg/platform/audit/store/postgres"
)

type fakeSource struct {
	mu        sync.Mutex
	pending   []auditpg.Message
	published []auditpg.Message
}

func (s *fakeSource) Drain(ctx context.Context, limit int, publish func(context.Context, []auditpg.Message) error) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(limit, len(s.pending))
	if n == 0 {
		return 0, nil
	}
	batch := append([]auditpg.Message{}, s.pending[:n]...)
	if err := publish(ctx, batch); err != nil {
		return 0, err
	}
	s.pending = s.pending[n:]
	s.published = append(s.published, batch...)
	return n, nil
}

func (s *fakeSource) publishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

type fakeProducer struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (p *fakeProducer) Publish(_ context.Context, _ []auditpg.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail {
		return errors.New("broker down")
	}
	return nil
}

func messages(n int) []auditpg.Message {
	out := make([]auditpg.Message, n)
	for i := range out {
		out[i] = auditpg.Message{ID: uuid.New(), AggregateKey: "village:1", EventType: "dinas_approved"}
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	_, err := New(nil, &fakeProducer{})
	require.Error(t, err)
	_, err = New(&fakeSource{}, nil)
	require.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	t.Run("publishes up to one batch", func(t *testing.T) {
		src := &fakeSource{pending: messages(5)}
		r, err := New(src, &fakeProducer{}, WithBatchSize(3), WithLogger(quietLogger()))
		require.NoError(t, err)

		n, err := r.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, 3, src.publishedCount())
	})

	t.Run("producer failure leaves rows pending", func(t *testing.T) {
		src := &fakeSource{pending: messages(2)}
		r, err := New(src, &fakeProducer{fail: true}, WithLogger(quietLogger()))
		require.NoError(t, err)

		_, err = r.RunOnce(context.Background())
		require.Error(t, err)
		assert.Equal(t, 0, src.publishedCount())
	})
}

func TestRun_DrainsAndStopsWithoutLeaks(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &fakeSource{pending: messages(7)}
	r, err := New(src, &fakeProducer{}, WithBatchSize(2), WithInterval(5*time.Millisecond), WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return src.publishedCount() == 7 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

package kafka

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankeu/internal/platform/config"
	auditpg "bankeu/pkg/platform/audit/store/postgres"
)

func TestNewProducer_DisabledWithoutBrokers(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{Topic: "bankeu.workflow"})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestToRecord(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := toRecord("bankeu.workflow", auditpg.Message{
		ID:           id,
		AggregateKey: "village:9",
		EventType:    "certificate_issued",
		Payload:      []byte(`{"proposal_id":3}`),
		CreatedAt:    at,
	})

	assert.Equal(t, "bankeu.workflow", rec.Topic)
	assert.Equal(t, "village:9", string(rec.Key))
	assert.Equal(t, at, rec.Timestamp)
	require.Len(t, rec.Headers, 2)
	assert.Equal(t, "certificate_issued", string(rec.Headers[0].Value))
	assert.Equal(t, id.String(), string(rec.Headers[1].Value))
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	audit "bankeu/pkg/platform/audit"
	txcontext "bankeu/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the relay.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Payload is the JSON structure published to Kafka.
type Payload struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	ActorID    int64  `json:"actor_id,omitempty"`
	ProposalID int64  `json:"proposal_id,omitempty"`
	VillageID  int64  `json:"village_id,omitempty"`
	DistrictID int64  `json:"district_id,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Code       string `json:"code,omitempty"`
	Affected   int    `json:"affected,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// Append writes an event to the outbox table.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload := Payload{
		ID:         eventID.String(),
		Type:       string(event.Type),
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorID:    int64(event.ActorID),
		ProposalID: int64(event.ProposalID),
		VillageID:  int64(event.VillageID),
		DistrictID: int64(event.DistrictID),
		From:       event.From,
		To:         event.To,
		Notes:      event.Notes,
		Code:       event.Code,
		Affected:   event.Affected,
		RequestID:  event.RequestID,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_key, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = txcontext.Use(ctx, s.db).ExecContext(ctx, query,
		eventID,
		event.AggregateKey(),
		string(event.Type),
		payloadBytes,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// Message is one pending outbox row.
type Message struct {
	ID           uuid.UUID
	AggregateKey string
	EventType    string
	Payload      []byte
	CreatedAt    time.Time
}

// Drain locks up to limit unpublished rows, hands them to publish, and marks
// them published when publish succeeds. Rows locked by a concurrent relay are
// skipped. Returns the number of rows published.
func (s *Store) Drain(ctx context.Context, limit int, publish func(ctx context.Context, msgs []Message) error) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox drain: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_key, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return 0, fmt.Errorf("select outbox batch: %w", err)
	}
	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.AggregateKey, &m.EventType, &m.Payload, &m.CreatedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	rows.Close()
	if len(msgs) == 0 {
		return 0, nil
	}

	if err := publish(ctx, msgs); err != nil {
		return 0, err
	}

	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID.String()
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE outbox SET published_at = NOW() WHERE id = ANY($1::uuid[])`,
		pq.Array(ids),
	); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox drain: %w", err)
	}
	return len(msgs), nil
}

// Package kafka publishes relayed workflow events with franz-go.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"bankeu/internal/platform/config"
	auditpg "bankeu/pkg/platform/audit/store/postgres"
)

const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)

// Producer implements outbox.Producer on a franz-go client. Records are
// keyed by aggregate so events for one village stay ordered on a partition.
type Producer struct {
	client *kgo.Client
	topic  string
}

// NewProducer dials the brokers. Returns nil, nil when no brokers are configured.
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.RecordDeliveryTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Producer{client: client, topic: cfg.Topic}, nil
}

// Publish produces the batch and waits for every acknowledgement.
func (p *Producer) Publish(ctx context.Context, msgs []auditpg.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	records := make([]*kgo.Record, 0, len(msgs))
	for _, m := range msgs {
		records = append(records, toRecord(p.topic, m))
	}
	return p.client.ProduceSync(ctx, records...).FirstErr()
}

func toRecord(topic string, m auditpg.Message) *kgo.Record {
	return &kgo.Record{
		Topic:     topic,
		Key:       []byte(m.AggregateKey),
		Value:     m.Payload,
		Timestamp: m.CreatedAt,
		Headers: []kgo.RecordHeader{
			{Key: headerEventType, Value: []byte(m.EventType)},
			{Key: headerEventID, Value: []byte(m.ID.String())},
		},
	}
}

// EnsureTopic creates the workflow topic if it does not exist.
func (p *Producer) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, t := range resp {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}

// Ping checks broker reachability.
func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *Producer) Close() {
	p.client.Close()
}

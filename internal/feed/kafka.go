package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/owenkhalil/valetdash/libs/kafkax"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Kafka delivers change events from a CDC-style topic. Message values are
// expected to carry {"table":...,"op":...}; op falls back to the event_type
// header when the value is unreadable. No row payload is ever consumed —
// events only signal that a re-fetch is due.
type Kafka struct {
	logger *slog.Logger
	cfg    KafkaConfig
}

type KafkaConfig struct {
	Brokers string
	GroupID string
	Topic   string
}

func NewKafka(logger *slog.Logger, cfg KafkaConfig) *Kafka {
	return &Kafka{logger: logger, cfg: cfg}
}

func (k *Kafka) Subscribe(ctx context.Context, table string) (Subscription, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkax.SplitBrokers(k.cfg.Brokers),
		GroupID:  k.cfg.GroupID,
		Topic:    k.cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	runCtx, cancel := context.WithCancel(ctx)
	s := &kafkaSubscription{
		events: make(chan Event, 16),
		cancel: cancel,
	}
	go s.run(runCtx, reader, k.logger, table)
	return s, nil
}

type kafkaSubscription struct {
	events chan Event
	cancel context.CancelFunc
	once   sync.Once
}

func (s *kafkaSubscription) Events() <-chan Event { return s.events }

func (s *kafkaSubscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

func (s *kafkaSubscription) run(ctx context.Context, reader *kafka.Reader, logger *slog.Logger, table string) {
	defer close(s.events)
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("kafka read error", "err", err)
			time.Sleep(1 * time.Second)
			continue
		}

		msgCtx := kafkax.ExtractTraceContext(ctx, msg)
		_, span := otel.Tracer("kafka").Start(msgCtx, "kafka.consume",
			trace.WithAttributes(
				attribute.String("messaging.system", "kafka"),
				attribute.String("messaging.destination", msg.Topic),
			),
		)

		meta := kafkax.ExtractEventMeta(msg)
		ev := Event{ID: eventID(meta.EventID), Table: table, Op: ParseOp(meta.EventType), At: msg.Time}
		var payload struct {
			Table string `json:"table"`
			Op    string `json:"op"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err == nil {
			if payload.Table != "" {
				ev.Table = payload.Table
			}
			if payload.Op != "" {
				ev.Op = ParseOp(payload.Op)
			}
		}
		if table != "" && ev.Table != table {
			span.End()
			continue
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			span.End()
			return
		}
		span.End()
	}
}

func eventID(raw string) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.New()
}

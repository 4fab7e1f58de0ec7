package orders

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the slice of kafka.Writer the exporter needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Exporter drains the outbox to a Kafka topic. The storefront runs
// fully without it; it only exists when brokers are configured.
type Exporter struct {
	repo   *Repository
	writer messageWriter
	tick   time.Duration
}

func NewExporter(repo *Repository, brokers ...string) *Exporter {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  eventTypeOrderCompleted,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Exporter{repo: repo, writer: writer, tick: 5 * time.Second}
}

// Run polls the outbox until the context is cancelled.
func (e *Exporter) Run(ctx context.Context) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.exportPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (e *Exporter) exportPending(ctx context.Context) {
	pending := e.repo.PendingEvents(ctx)
	if len(pending) == 0 {
		return
	}

	var exported []string
	for _, event := range pending {
		msg := kafka.Message{
			Key:   []byte(event.OrderID),
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
			},
		}
		if err := e.writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("orders: export of event %s failed: %v", event.ID, err)
			continue
		}
		exported = append(exported, event.ID)
	}

	if err := e.repo.MarkExported(ctx, exported...); err != nil {
		log.Printf("orders: marking exported events failed: %v", err)
	}
}

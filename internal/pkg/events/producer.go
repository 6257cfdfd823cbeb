package events

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/roll2bowl/partner-api/internal/pkg/env"
)

// Event types published to the partner events topic.
const (
	EventOrderPlaced       = "order.placed"
	EventOrderStatusChange = "order.status_changed"
	EventPaymentVerified   = "payment.verified"
	EventPaymentFailed     = "payment.failed"
	EventSubscriptionSetup = "subscription.activated"
)

// Envelope wraps every published event.
type Envelope struct {
	Type       string          `json:"type"`
	BranchID   uint            `json:"branchId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Producer publishes events asynchronously through a buffered inbox so
// request handlers never block on the broker. The inbox channel is
// never closed; shutdown is signalled through quit so a Publish racing
// Close cannot panic.
type Producer struct {
	w         *kafka.Writer
	inbox     chan kafka.Message
	quit      chan struct{}
	closeOnce sync.Once
	closed    chan struct{}
}

// NewProducer creates a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:  make(chan kafka.Message, buf),
		quit:   make(chan struct{}),
		closed: make(chan struct{}),
	}
}

// NewProducerFromEnv creates a producer from KAFKA_BROKERS and
// KAFKA_EVENTS_TOPIC, or nil when no brokers are configured. A nil
// Producer is safe to use; publishes become no-ops.
func NewProducerFromEnv() *Producer {
	brokers := env.GetEnv("KAFKA_BROKERS", "")
	if brokers == "" {
		return nil
	}
	topic := env.GetEnv("KAFKA_EVENTS_TOPIC", "partner-events")
	return NewProducer(strings.Split(brokers, ","), topic, 256)
}

// Start drains the inbox until ctx is cancelled or Close is called,
// then flushes remaining messages and closes the writer.
func (p *Producer) Start(ctx context.Context) {
	if p == nil {
		return
	}
	go func() {
		defer close(p.closed)
		for {
			select {
			case <-ctx.Done():
				p.flush()
				return
			case <-p.quit:
				p.flush()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

// flush writes whatever is still buffered and closes the writer.
func (p *Producer) flush() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			_ = p.w.Close()
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Printf("events: failed to publish %s: %v", string(m.Key), err)
	}
}

// Publish enqueues an event keyed by branch so per-branch ordering is
// preserved. Dropping on a full inbox is preferred over blocking the
// request path.
func (p *Producer) Publish(eventType string, branchID uint, payload any) {
	if p == nil {
		return
	}
	select {
	case <-p.quit:
		return
	default:
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: failed to marshal %s payload: %v", eventType, err)
		return
	}
	evt := Envelope{
		Type:       eventType,
		BranchID:   branchID,
		OccurredAt: time.Now(),
		Payload:    raw,
	}
	value, err := json.Marshal(evt)
	if err != nil {
		log.Printf("events: failed to marshal %s envelope: %v", eventType, err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(branchID), 10)),
		Value: value,
		Time:  evt.OccurredAt,
	}
	select {
	case p.inbox <- msg:
	default:
		log.Printf("events: inbox full, dropping %s for branch %d", eventType, branchID)
	}
}

// Close stops accepting publishes and signals the drain goroutine to
// flush and exit. Safe to call more than once.
func (p *Producer) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() { close(p.quit) })
}

// WaitClosed blocks until the drain goroutine started by Start has
// flushed and exited.
func (p *Producer) WaitClosed() {
	if p == nil {
		return
	}
	<-p.closed
}

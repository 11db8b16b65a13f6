package events

//go:generate go run go.uber.org/mock/mockgen -source=./emitter.go -destination=./mocks/emitter_mock.go -package=mocks

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tarmac/config"
	"tarmac/infras/kafka"
	"tarmac/shared/timezone"
)

const (
	TypeBookingCreated   = "BOOKING_CREATED"
	TypeBookingConfirmed = "BOOKING_CONFIRMED"
	TypeBookingExpired   = "BOOKING_EXPIRED"
	TypeBookingCancelled = "BOOKING_CANCELLED"
)

// fallbackCapacity bounds the in-memory buffer of events that could not be
// delivered to the broker. The oldest entry is dropped when full.
const fallbackCapacity = 1000

type Event struct {
	EventType string         `json:"event_type"`
	BookingID string         `json:"booking_id"`
	SlotID    string         `json:"slot_id"`
	Reference string         `json:"reference"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

type Emitter interface {
	Publish(ctx context.Context, event Event)
	FallbackSize() int
}

type emitterImpl struct {
	kafka kafka.Client
	cfg   *config.Config

	mu       sync.Mutex
	fallback []Event
}

func NewEmitter(kafkaClient kafka.Client, cfg *config.Config) Emitter {
	return &emitterImpl{
		kafka: kafkaClient,
		cfg:   cfg,
	}
}

// Publish sends the event to the booking topic without blocking the caller.
// Booking state is already committed by the time an event is emitted, so a
// delivery failure never fails the operation; the event is parked in a bounded
// fallback buffer instead.
func (e *emitterImpl) Publish(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = timezone.Now()
	}

	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{
			Key:   event.BookingID,
			Value: event,
		}

		if err := e.kafka.SendMessages(c, e.cfg.Kafka.BookingTopic, message); err != nil {
			log.Error().
				Err(err).
				Str("event_type", event.EventType).
				Str("booking_id", event.BookingID).
				Msg("failed to publish booking event, keeping in fallback buffer")

			e.park(event)

			return
		}

		log.Info().
			Str("event_type", event.EventType).
			Str("booking_id", event.BookingID).
			Msg("booking event published")
	}()
}

// FallbackSize reports how many undelivered events are currently parked. It is
// surfaced through the health endpoint.
func (e *emitterImpl) FallbackSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.fallback)
}

func (e *emitterImpl) park(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.fallback) >= fallbackCapacity {
		e.fallback = e.fallback[1:]
	}

	e.fallback = append(e.fallback, event)
}

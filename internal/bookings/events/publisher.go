package events

import (
	"context"

	"slotwise/pkg/config"
	"slotwise/pkg/kafka"
	"slotwise/pkg/model"
)

// Event types carried in the event-type header.
const (
	BookingCreated       = "booking.created"
	BookingUpdated       = "booking.updated"
	BookingStatusChanged = "booking.status_changed"
	BookingCancelled     = "booking.cancelled"

	schemaVersion = "1"
	source        = "bookings"
)

// payload is the event body. Previous status rides along on transitions so
// consumers need no lookup to know what changed.
type payload struct {
	Booking    *model.Booking      `json:"booking"`
	PrevStatus model.BookingStatus `json:"prev_status,omitempty"`
}

// Publisher emits booking lifecycle events after the write commits. Publishing
// is fire-and-forget: a failed publish is logged and never fails the booking.
type Publisher interface {
	Publish(eventType string, booking *model.Booking, prevStatus model.BookingStatus)
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	cfg      *config.Config
}

func NewKafkaPublisher(producer *kafka.Producer, cfg *config.Config) Publisher {
	return &kafkaPublisher{producer: producer, cfg: cfg}
}

func (p *kafkaPublisher) Publish(eventType string, booking *model.Booking, prevStatus model.BookingStatus) {
	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(payload{Booking: booking, PrevStatus: prevStatus}).
		WithEventType(eventType).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		Build()
	if err != nil {
		p.cfg.Log.Error("Failed to build booking event", "event_type", eventType, "booking_id", booking.ID, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.EventPublishTimeout)
		defer cancel()

		if err := p.producer.Publish(ctx, msg); err != nil {
			p.cfg.Log.Error("Failed to publish booking event",
				"event_type", eventType,
				"event_id", msg.GetEventID(),
				"booking_id", booking.ID,
				"error", err,
			)
			return
		}
		p.cfg.Log.Debug("Booking event published",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
			"booking_id", booking.ID,
		)
	}()
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when event publishing is disabled by configuration.
type NopPublisher struct{}

func (NopPublisher) Publish(string, *model.Booking, model.BookingStatus) {}

func (NopPublisher) Close() error { return nil }

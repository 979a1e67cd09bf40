package events

import (
	"context"
	"time"

	"parkade/pkg/kafka"
)

const (
	TypeBookingCompleted = "booking.completed"

	SchemaVersion = "1"
)

// BookingCompleted is published once for every booking whose payment
// completed and whose slot was closed. Fire-and-forget: no acknowledgment
// contract exists for consumers.
type BookingCompleted struct {
	BookingID     string    `json:"booking_id"`
	CustomerID    string    `json:"customer_id"`
	LandlordID    string    `json:"landlord_id"`
	ParkingSlotID string    `json:"parking_slot_id"`
	PricePerHour  string    `json:"price_per_hour"`
	TimeFrom      time.Time `json:"time_from"`
	TimeUntil     time.Time `json:"time_until"`
}

// Publisher publishes booking lifecycle events to the configured topic.
type Publisher interface {
	PublishBookingCompleted(ctx context.Context, event BookingCompleted) error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaPublisher) PublishBookingCompleted(ctx context.Context, event BookingCompleted) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventID("").
		WithEventType(TypeBookingCompleted).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}

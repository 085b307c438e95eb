package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
)

const EventBookingCreated = "booking.created"

type BookingEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Booking    models.Booking `json:"booking"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BookingNotifier tells the rest of the clinic about new bookings. With no
// brokers configured it only logs.
type BookingNotifier struct {
	writer messageWriter
	log    zerolog.Logger
	wg     sync.WaitGroup
}

func NewBookingNotifier(brokers []string, topic string, log zerolog.Logger) *BookingNotifier {
	n := &BookingNotifier{log: log}
	if len(brokers) > 0 {
		n.writer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		}
	}
	return n
}

// BookingCreated publishes in the background so the booking response is
// never held up by the broker.
func (n *BookingNotifier) BookingCreated(booking models.Booking) {
	evt := BookingEvent{
		ID:         uuid.NewString(),
		Type:       EventBookingCreated,
		Booking:    booking,
		OccurredAt: time.Now().UTC(),
	}
	if n.writer == nil {
		n.log.Debug().Str("event_id", evt.ID).Str("patient", booking.Patient).
			Str("treatment", booking.Treatment).Str("date", booking.Date).Msg("booking created")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.publish(evt)
	}()
}

func (n *BookingNotifier) publish(evt BookingEvent) {
	value, err := json.Marshal(evt)
	if err != nil {
		n.log.Error().Err(err).Str("event_id", evt.ID).Msg("encode booking event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Booking.Patient),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(evt.ID)},
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	})
	if err != nil {
		n.log.Error().Err(err).Str("event_id", evt.ID).Msg("publish booking event")
		return
	}
	n.log.Debug().Str("event_id", evt.ID).Msg("booking event published")
}

// Close waits for in-flight publishes before closing the writer.
func (n *BookingNotifier) Close() error {
	n.wg.Wait()
	if n.writer == nil {
		return nil
	}
	return n.writer.Close()
}

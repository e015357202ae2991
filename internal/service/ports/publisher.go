package ports

import "github.com/iliyamo/hotel-room-booking/internal/queue"

// EventPublisher emits booking lifecycle events to the message broker.
// Publishing is best-effort; failures are logged, never surfaced to
// the API caller.
type EventPublisher interface {
	PublishBookingConfirmed(evt queue.BookingConfirmedEvent)
	PublishBookingCancelled(evt queue.BookingCancelledEvent)
}

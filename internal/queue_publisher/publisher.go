// Package queue_publisher publishes booking lifecycle events to
// RabbitMQ.  Failures are logged and swallowed so a broker outage can
// never fail an API request.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/hotel-room-booking/internal/queue"
)

// Publisher implements the service layer's EventPublisher port.  Each
// publish opens a short-lived connection; event volume is low enough
// that connection reuse is not worth the reconnect bookkeeping here.
type Publisher struct {
	url string
}

// New returns a publisher dialing the given AMQP URL.
func New(url string) *Publisher { return &Publisher{url: url} }

// PublishBookingConfirmed emits the event to the booking.confirmed
// queue.
func (p *Publisher) PublishBookingConfirmed(evt q.BookingConfirmedEvent) {
	p.publish(q.ConfirmedQueue, evt)
}

// PublishBookingCancelled emits the event to the booking.cancelled
// queue.
func (p *Publisher) PublishBookingCancelled(evt q.BookingCancelledEvent) {
	p.publish(q.CancelledQueue, evt)
}

func (p *Publisher) publish(queueName string, evt any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(evt)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish to %s failed: %v", queueName, err)
	}
}

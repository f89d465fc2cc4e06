package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartReservationConsumer connects to RabbitMQ, declares the two
// reservation queues (durable) and consumes both, appending one line
// per event to logs/reservation.log.  It runs a reconnect loop with
// exponential backoff and never returns under normal operation;
// processing errors reject the offending message without requeueing
// so a poison message cannot wedge the loop.
func StartReservationConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(amqpURL())
		if err != nil {
			log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("reservation-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{QueueReservationCreated, QueueReservationCancelled} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	created, err := ch.Consume(QueueReservationCreated, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", QueueReservationCreated, err)
	}
	cancelled, err := ch.Consume(QueueReservationCancelled, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume %s: %w", QueueReservationCancelled, err)
	}

	for {
		select {
		case d, ok := <-created:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			ack(d, handleCreated(d.Body))
		case d, ok := <-cancelled:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			ack(d, handleCancelled(d.Body))
		}
	}
}

func ack(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("reservation-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func handleCreated(body []byte) error {
	var ev ReservationCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation created | reservation_id=%d | company_id=%d | vin=%s | vehicle=%q | customer=%q | from=%s | to=%s | status=%s\n",
		ev.CreatedAt, ev.ReservationID, ev.CompanyID, ev.VIN, ev.VehicleModel, ev.CustomerName, ev.StartAt, ev.EndAt, ev.Status)
	return appendLog(line)
}

func handleCancelled(body []byte) error {
	var ev ReservationCancelledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation cancelled | reservation_id=%d | company_id=%d | vin=%s | from=%s | to=%s\n",
		ev.CancelledAt, ev.ReservationID, ev.CompanyID, ev.VIN, ev.StartAt, ev.EndAt)
	return appendLog(line)
}

func appendLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "reservation.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

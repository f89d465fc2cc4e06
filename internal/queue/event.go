// Package queue defines the domain events exchanged over RabbitMQ and
// the publisher/consumer that move them.
package queue

// Queue names.  Each event type gets its own durable queue; the
// routing key equals the queue name on the default exchange.
const (
	QueueReservationCreated   = "reservation.created"
	QueueReservationCancelled = "reservation.cancelled"
)

// ReservationCreatedEvent is published after a reservation commits.
// It carries enough denormalized detail for downstream consumers to
// log or notify without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	CompanyID     uint64 `json:"company_id"`
	VIN           string `json:"vin"`
	VehicleModel  string `json:"vehicle_model"`
	CustomerID    uint64 `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	StartAt       string `json:"start_datetime"`
	EndAt         string `json:"end_datetime"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// ReservationCancelledEvent is published after a reservation is
// deleted.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	CompanyID     uint64 `json:"company_id"`
	VIN           string `json:"vin"`
	StartAt       string `json:"start_datetime"`
	EndAt         string `json:"end_datetime"`
	CancelledAt   string `json:"cancelled_at"`
}

// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// ReservationEvent is published whenever a reservation changes state:
// created, adminApproved, approverApproved, rejected or cancelled.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type ReservationEvent struct {
	Event           string `json:"event"`
	ReservationID   uint64 `json:"reservation_id"`
	Reference       string `json:"reference"`
	RoomID          uint64 `json:"room_id"`
	UserID          uint64 `json:"user_id"`
	BookingDate     string `json:"booking_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Status          string `json:"reservation_status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}

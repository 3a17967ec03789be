package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reservation is a single room booking with a time interval and an approval
// status.  It maps 1:1 onto the reservations table.
//
// Fields:
//  ID              – primary key identifier, system generated.
//  Reference       – client-facing UUID assigned at creation, immutable.
//  RoomID, UserID  – opaque foreign references owned by external collaborators.
//  BookingDate     – civil date (DateLayout), no time zone attached.
//  StartTime       – start of the interval in ClockLayout.
//  EndTime         – exclusive end of the interval; always after StartTime.
//  NumberOfUsers   – headcount, positive; capacity checks belong to the room
//                    collaborator.
//  ReservationType – teaching, exam, activity or other.
//  ReservationReason – optional free text.
//  Phone           – contact string, required at creation.
//  Status          – lifecycle state, owned by the approval state machine.
//  RejectionReason – set only while Status is rejected.
type Reservation struct {
	ID                uint64    `json:"id"`
	Reference         string    `json:"reference"`
	RoomID            uint64    `json:"room_id"`
	UserID            uint64    `json:"user_id"`
	BookingDate       string    `json:"booking_date"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	NumberOfUsers     uint32    `json:"number_of_users"`
	ReservationType   string    `json:"reservation_type"`
	ReservationReason *string   `json:"reservation_reason,omitempty"`
	Phone             string    `json:"phone"`
	Status            Status    `json:"reservation_status"`
	RejectionReason   *string   `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Recognized reservation types.  The set is advisory: the core only insists on
// a non-empty value, matching what the surrounding clients send.
const (
	TypeTeaching = "teaching"
	TypeExam     = "exam"
	TypeActivity = "activity"
	TypeOther    = "other"
)

// Slot returns the reservation's interval for overlap evaluation.  Times are
// stored normalized, so parse errors cannot occur on rows built through
// NewReservation; malformed rows yield a zero slot that overlaps nothing.
func (r *Reservation) Slot() TimeSlot {
	start, err := ParseClock(r.StartTime)
	if err != nil {
		return TimeSlot{}
	}
	end, err := ParseClock(r.EndTime)
	if err != nil {
		return TimeSlot{}
	}
	return TimeSlot{Date: r.BookingDate, Start: start, End: end}
}

// NewReservation validates booking input and builds a pending reservation with
// a fresh reference.  All failures wrap ErrValidation so callers can reject
// the request before touching the store.
func NewReservation(roomID, userID uint64, date, start, end string, numberOfUsers uint32, rtype, reason, phone string) (*Reservation, error) {
	if roomID == 0 {
		return nil, fmt.Errorf("%w: room_id is required", ErrValidation)
	}
	if userID == 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	slot, err := NewTimeSlot(date, start, end)
	if err != nil {
		return nil, err
	}
	if numberOfUsers == 0 {
		return nil, fmt.Errorf("%w: number_of_users must be positive", ErrValidation)
	}
	if strings.TrimSpace(rtype) == "" {
		return nil, fmt.Errorf("%w: reservation_type is required", ErrValidation)
	}
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	res := &Reservation{
		Reference:       uuid.NewString(),
		RoomID:          roomID,
		UserID:          userID,
		BookingDate:     slot.Date,
		StartTime:       slot.Start.String(),
		EndTime:         slot.End.String(),
		NumberOfUsers:   numberOfUsers,
		ReservationType: strings.TrimSpace(rtype),
		Phone:           strings.TrimSpace(phone),
		Status:          StatusPending,
	}
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		res.ReservationReason = &trimmed
	}
	return res, nil
}

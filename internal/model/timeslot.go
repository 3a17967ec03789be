package model

import (
	"errors"
	"fmt"
	"time"
)

// Layouts used for the civil date and time-of-day columns.  The store keeps
// booking_date as DATE and start/end as TIME, both interpreted as local civil
// values with no time zone attached.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// ErrValidation is the sentinel wrapped by every input validation failure.
// Handlers compare with errors.Is and translate it into a 400 response before
// any store access happens.
var ErrValidation = errors.New("validation failed")

// Clock is a time of day expressed as seconds since midnight.  Keeping it
// numeric makes the overlap predicate a plain integer comparison and keeps a
// single canonical representation for both "15:04" and "15:04:05" inputs.
type Clock int

// ParseClock accepts "HH:MM" or "HH:MM:SS" and returns the seconds since
// midnight.  Anything else fails with a wrapped ErrValidation.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time of day %q", ErrValidation, s)
	}
	return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
}

// String renders the clock in the store's TIME format ("15:04:05").
func (c Clock) String() string {
	secs := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// TimeSlot is a half-open interval [Start, End) on a single civil date.
//
// Every overlap decision in the system goes through Overlaps; the SQL used by
// the repository (NOT (end_time <= ? OR start_time >= ?)) is the same predicate
// pushed into the WHERE clause, so both paths agree on boundary cases.
type TimeSlot struct {
	Date  string // civil date in DateLayout
	Start Clock
	End   Clock
}

// NewTimeSlot validates the date layout and the Start < End invariant.
func NewTimeSlot(date, start, end string) (TimeSlot, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return TimeSlot{}, fmt.Errorf("%w: invalid booking date %q", ErrValidation, date)
	}
	s, err := ParseClock(start)
	if err != nil {
		return TimeSlot{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeSlot{}, err
	}
	if s >= e {
		return TimeSlot{}, fmt.Errorf("%w: start_time must be before end_time", ErrValidation)
	}
	return TimeSlot{Date: date, Start: s, End: e}, nil
}

// Overlaps reports whether the two intervals share any instant.  Intervals on
// different dates never overlap, and touching intervals (one ending exactly
// when the other starts) do not overlap.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	if s.Date != o.Date {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}

package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveStatuses are the statuses that hold their date range. Cancelled and
// completed bookings free their dates immediately.
var ActiveStatuses = []BookingStatus{BookingPending, BookingConfirmed}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Terminal statuses accept no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// CanTransitionTo encodes the booking state machine:
// pending -> confirmed | cancelled | completed
// confirmed -> cancelled | completed
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s.Terminal() || !next.Valid() || next == s {
		return false
	}
	switch next {
	case BookingConfirmed:
		return s == BookingPending
	case BookingCancelled, BookingCompleted:
		return s.Active()
	}
	return false
}

type Booking struct {
	ID         int64
	ListingID  int64
	GuestID    int64
	CheckIn    time.Time // date-only, inclusive
	CheckOut   time.Time // date-only, exclusive
	Guests     int
	TotalCents int64 // derived at creation, immutable afterwards
	Status     BookingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Listing snippet for guest-facing lists, filled by joins.
	ListingTitle  *string
	ListingCity   *string
	ListingImages []string
}

// Overlaps reports whether two half-open date ranges [aIn, aOut) and
// [bIn, bOut) intersect. Checkout morning and checkin afternoon on the same
// date do not collide.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// Quote is the priced result of an availability check.
type Quote struct {
	Nights     int
	TotalCents int64
}

package app

import (
	"fmt"
	"time"

	"minibnb/internal/domain"
)

// DateOnly drops the time-of-day component; availability comparisons work on
// calendar dates in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckAndPrice decides whether a stay is bookable against the listing and
// its currently active bookings, and what it costs. It is a pure check: the
// repository re-runs the conflict test under a listing lock at insert time,
// so a pass here is advisory under concurrency.
func CheckAndPrice(l domain.Listing, checkIn, checkOut time.Time, guests int, existing []domain.Booking, now time.Time) (domain.Quote, error) {
	in := DateOnly(checkIn)
	out := DateOnly(checkOut)
	today := DateOnly(now)

	if in.Before(today) {
		return domain.Quote{}, domain.Validation(domain.CodePastDate, "check-in date cannot be in the past")
	}
	if !out.After(in) {
		return domain.Quote{}, domain.Validation(domain.CodeInvalidRange, "check-out must be after check-in")
	}
	if guests > l.MaxGuests {
		return domain.Quote{}, domain.Validation(domain.CodeCapacityExceeded,
			fmt.Sprintf("listing sleeps at most %d guests", l.MaxGuests))
	}

	for _, b := range existing {
		if !b.Status.Active() {
			continue
		}
		if domain.Overlaps(in, out, DateOnly(b.CheckIn), DateOnly(b.CheckOut)) {
			return domain.Quote{}, domain.Conflict(domain.CodeDateConflict, "requested dates are not available")
		}
	}

	nights := int(out.Sub(in).Hours() / 24)
	return domain.Quote{Nights: nights, TotalCents: int64(nights) * l.PriceCents}, nil
}

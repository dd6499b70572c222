package app

import (
	"context"
	"time"

	"minibnb/internal/domain"
)

type CreateBookingInput struct {
	ListingID int64
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
}

type BookingService struct {
	bookings domain.BookingRepository
	listings domain.ListingRepository
	authz    *Resolver
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, l domain.ListingRepository, authz *Resolver) *BookingService {
	return &BookingService{bookings: b, listings: l, authz: authz, now: time.Now}
}

// Create validates and prices the stay, then hands the booking to the
// repository, which re-checks conflicts under a listing lock before inserting.
func (s *BookingService) Create(ctx context.Context, actor *domain.User, in CreateBookingInput) (domain.Booking, error) {
	if actor == nil {
		return domain.Booking{}, domain.ErrUnauthenticated
	}
	l, err := s.listings.GetListing(ctx, in.ListingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := s.authz.CanContactListing(actor, l); err != nil {
		return domain.Booking{}, err
	}

	existing, err := s.bookings.ListBookingsForListing(ctx, l.ID, domain.ActiveStatuses)
	if err != nil {
		return domain.Booking{}, err
	}
	quote, err := CheckAndPrice(l, in.CheckIn, in.CheckOut, in.Guests, existing, s.now())
	if err != nil {
		return domain.Booking{}, err
	}

	return s.bookings.CreateBooking(ctx, domain.Booking{
		ListingID:  l.ID,
		GuestID:    actor.ID,
		CheckIn:    DateOnly(in.CheckIn),
		CheckOut:   DateOnly(in.CheckOut),
		Guests:     in.Guests,
		TotalCents: quote.TotalCents,
		Status:     domain.BookingPending,
	})
}

func (s *BookingService) Get(ctx context.Context, actor *domain.User, id int64) (domain.Booking, error) {
	if actor == nil {
		return domain.Booking{}, domain.ErrUnauthenticated
	}
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	l, err := s.listings.GetListing(ctx, b.ListingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := s.authz.CanAccessBooking(ctx, actor, b, l); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

// ListForHost returns bookings across every listing the actor owns, newest
// check-in first.
func (s *BookingService) ListForHost(ctx context.Context, actor *domain.User) ([]domain.Booking, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.bookings.ListBookingsForHost(ctx, actor.ID)
}

func (s *BookingService) ListForGuest(ctx context.Context, actor *domain.User) ([]domain.Booking, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.bookings.ListBookingsForGuest(ctx, actor.ID)
}

// UpdateStatus applies a host-side transition. Confirmation is reserved to
// the host or a managing co-host; cancellation is additionally open to the
// guest via Cancel.
func (s *BookingService) UpdateStatus(ctx context.Context, actor *domain.User, id int64, status domain.BookingStatus) (domain.Booking, error) {
	if actor == nil {
		return domain.Booking{}, domain.ErrUnauthenticated
	}
	if !status.Valid() {
		return domain.Booking{}, domain.Validation(domain.CodeInvalidRange, "unknown booking status")
	}
	if status == domain.BookingCompleted {
		// Reachable only through the administrative Complete operation.
		return domain.Booking{}, domain.ErrForbidden
	}
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	l, err := s.listings.GetListing(ctx, b.ListingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if status == domain.BookingCancelled {
		if err := s.authz.CanAccessBooking(ctx, actor, b, l); err != nil {
			return domain.Booking{}, err
		}
	} else {
		if err := s.authz.CanManageBooking(ctx, actor, l); err != nil {
			return domain.Booking{}, err
		}
	}
	if !b.Status.CanTransitionTo(status) {
		return domain.Booking{}, domain.Conflict(domain.CodeInvalidTransition,
			"cannot move booking from "+string(b.Status)+" to "+string(status))
	}
	return s.bookings.UpdateBookingStatus(ctx, id, status)
}

// Cancel releases the booking's date range. Cancelling an already-cancelled
// booking is a no-op; cancelling a completed one is rejected.
func (s *BookingService) Cancel(ctx context.Context, actor *domain.User, id int64) (domain.Booking, error) {
	if actor == nil {
		return domain.Booking{}, domain.ErrUnauthenticated
	}
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	l, err := s.listings.GetListing(ctx, b.ListingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := s.authz.CanAccessBooking(ctx, actor, b, l); err != nil {
		return domain.Booking{}, err
	}
	if b.Status == domain.BookingCancelled {
		return b, nil
	}
	if !b.Status.CanTransitionTo(domain.BookingCancelled) {
		return domain.Booking{}, domain.Conflict(domain.CodeInvalidTransition,
			"completed bookings cannot be cancelled")
	}
	return s.bookings.UpdateBookingStatus(ctx, id, domain.BookingCancelled)
}

// Complete is an administrative operation: no public route reaches it. A
// stay may be marked completed once it is pending or confirmed; terminal
// bookings are left alone.
func (s *BookingService) Complete(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !b.Status.CanTransitionTo(domain.BookingCompleted) {
		return domain.Booking{}, domain.Conflict(domain.CodeInvalidTransition,
			"cannot complete booking in status "+string(b.Status))
	}
	return s.bookings.UpdateBookingStatus(ctx, id, domain.BookingCompleted)
}

package app

import (
	"context"
	"errors"

	"minibnb/internal/domain"
)

// Resolver answers "may this user perform this action on this resource".
// Direct ownership is consulted first, co-host grants second. Grants are
// fetched fresh on every call; a revocation takes effect on the next request.
type Resolver struct {
	grants domain.CohostRepository
}

func NewResolver(grants domain.CohostRepository) *Resolver {
	return &Resolver{grants: grants}
}

func (r *Resolver) grant(ctx context.Context, listingID int64, u *domain.User) (domain.CohostPermission, bool, error) {
	p, err := r.grants.FindPermission(ctx, listingID, u.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CohostPermission{}, false, nil
	}
	if err != nil {
		return domain.CohostPermission{}, false, err
	}
	return p, true, nil
}

// CanEditListing: the host, or a co-host granted can_edit_listing.
func (r *Resolver) CanEditListing(ctx context.Context, u *domain.User, l domain.Listing) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if l.HostID == u.ID {
		return nil
	}
	p, ok, err := r.grant(ctx, l.ID, u)
	if err != nil {
		return err
	}
	if ok && p.CanEditListing {
		return nil
	}
	return domain.ErrForbidden
}

// CanDeleteListing: host only; co-hosts may never delete.
func (r *Resolver) CanDeleteListing(u *domain.User, l domain.Listing) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if l.HostID != u.ID {
		return domain.ErrForbidden
	}
	return nil
}

// CanAccessBooking: the booking's guest, the listing's host, or a co-host
// granted can_manage_bookings. Covers read, status updates and cancellation.
func (r *Resolver) CanAccessBooking(ctx context.Context, u *domain.User, b domain.Booking, l domain.Listing) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if b.GuestID == u.ID || l.HostID == u.ID {
		return nil
	}
	p, ok, err := r.grant(ctx, l.ID, u)
	if err != nil {
		return err
	}
	if ok && p.CanManageBookings {
		return nil
	}
	return domain.ErrForbidden
}

// CanManageBooking: the listing's host or a co-host granted
// can_manage_bookings; the guest party does not qualify. Gates transitions
// that only the supply side may perform (confirming a stay).
func (r *Resolver) CanManageBooking(ctx context.Context, u *domain.User, l domain.Listing) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if l.HostID == u.ID {
		return nil
	}
	p, ok, err := r.grant(ctx, l.ID, u)
	if err != nil {
		return err
	}
	if ok && p.CanManageBookings {
		return nil
	}
	return domain.ErrForbidden
}

// CanContactListing rejects a host acting on their own listing: booking or
// messaging yourself is never allowed.
func (r *Resolver) CanContactListing(u *domain.User, l domain.Listing) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if l.HostID == u.ID {
		return domain.ErrForbidden
	}
	return nil
}

// CanAccessConversation: a conversation party, or a co-host of its listing
// granted can_respond_messages.
func (r *Resolver) CanAccessConversation(ctx context.Context, u *domain.User, c domain.Conversation) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if c.GuestID == u.ID || c.HostID == u.ID {
		return nil
	}
	p, ok, err := r.grant(ctx, c.ListingID, u)
	if err != nil {
		return err
	}
	if ok && p.CanRespondMessages {
		return nil
	}
	return domain.ErrForbidden
}

// CanManageCohosts: only the owning host may create, update or revoke grants
// on a listing.
func (r *Resolver) CanManageCohosts(u *domain.User, l domain.Listing) error {
	if u == nil {
		return domain.ErrUnauthenticated
	}
	if l.HostID != u.ID {
		return domain.ErrForbidden
	}
	return nil
}

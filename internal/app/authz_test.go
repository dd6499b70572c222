package app_test

import (
	"context"
	"errors"
	"testing"

	"minibnb/internal/app"
	"minibnb/internal/domain"
)

// world sets up a host with one listing, a guest, and an outsider. Tests add
// grants on top as needed.
type world struct {
	store   *store
	authz   *app.Resolver
	host    domain.User
	guest   domain.User
	other   domain.User
	listing domain.Listing
}

func newWorld() *world {
	s := newStore()
	host := s.addUser(domain.User{Email: "host@example.com", IsHost: true})
	guest := s.addUser(domain.User{Email: "guest@example.com"})
	other := s.addUser(domain.User{Email: "other@example.com"})
	l := s.addListing(domain.Listing{HostID: host.ID, Title: "Loft", PriceCents: 10000, MaxGuests: 4})
	return &world{store: s, authz: app.NewResolver(s), host: host, guest: guest, other: other, listing: l}
}

func (w *world) grant(canEdit, canManage, canRespond bool) domain.CohostPermission {
	return w.store.addPerm(domain.CohostPermission{
		ListingID:          w.listing.ID,
		HostID:             w.host.ID,
		CohostID:           w.other.ID,
		CanEditListing:     canEdit,
		CanManageBookings:  canManage,
		CanRespondMessages: canRespond,
	})
}

func TestCanEditListing(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	if err := w.authz.CanEditListing(ctx, &w.host, w.listing); err != nil {
		t.Errorf("host edit: %v", err)
	}
	if err := w.authz.CanEditListing(ctx, &w.other, w.listing); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("stranger edit: got %v, want forbidden", err)
	}
	if err := w.authz.CanEditListing(ctx, nil, w.listing); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("anonymous edit: got %v, want unauthenticated", err)
	}

	w.grant(true, false, false)
	if err := w.authz.CanEditListing(ctx, &w.other, w.listing); err != nil {
		t.Errorf("co-host with can_edit_listing: %v", err)
	}
}

func TestCanEditListingGrantWithoutCapability(t *testing.T) {
	w := newWorld()
	w.grant(false, true, true)
	if err := w.authz.CanEditListing(context.Background(), &w.other, w.listing); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("co-host without can_edit_listing: got %v, want forbidden", err)
	}
}

func TestCanDeleteListingHostOnly(t *testing.T) {
	w := newWorld()
	w.grant(true, true, true) // even a full grant never allows delete

	if err := w.authz.CanDeleteListing(&w.host, w.listing); err != nil {
		t.Errorf("host delete: %v", err)
	}
	if err := w.authz.CanDeleteListing(&w.other, w.listing); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("co-host delete: got %v, want forbidden", err)
	}
}

func TestCanAccessBooking(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	b := domain.Booking{ListingID: w.listing.ID, GuestID: w.guest.ID, Status: domain.BookingPending}

	if err := w.authz.CanAccessBooking(ctx, &w.guest, b, w.listing); err != nil {
		t.Errorf("guest access: %v", err)
	}
	if err := w.authz.CanAccessBooking(ctx, &w.host, b, w.listing); err != nil {
		t.Errorf("host access: %v", err)
	}
	if err := w.authz.CanAccessBooking(ctx, &w.other, b, w.listing); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("stranger access: got %v, want forbidden", err)
	}

	w.grant(false, true, false)
	if err := w.authz.CanAccessBooking(ctx, &w.other, b, w.listing); err != nil {
		t.Errorf("co-host with can_manage_bookings: %v", err)
	}
}

func TestCanManageBookingExcludesGuest(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	if err := w.authz.CanManageBooking(ctx, &w.guest, w.listing); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("guest manage: got %v, want forbidden", err)
	}
	if err := w.authz.CanManageBooking(ctx, &w.host, w.listing); err != nil {
		t.Errorf("host manage: %v", err)
	}
}

func TestCanContactListingDeniesSelf(t *testing.T) {
	w := newWorld()
	if err := w.authz.CanContactListing(&w.host, w.listing); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("host contacting own listing: got %v, want forbidden", err)
	}
	if err := w.authz.CanContactListing(&w.guest, w.listing); err != nil {
		t.Errorf("guest contact: %v", err)
	}
}

func TestCanAccessConversation(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	c := domain.Conversation{ListingID: w.listing.ID, GuestID: w.guest.ID, HostID: w.host.ID}

	if err := w.authz.CanAccessConversation(ctx, &w.guest, c); err != nil {
		t.Errorf("guest party: %v", err)
	}
	if err := w.authz.CanAccessConversation(ctx, &w.host, c); err != nil {
		t.Errorf("host party: %v", err)
	}
	if err := w.authz.CanAccessConversation(ctx, &w.other, c); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("stranger: got %v, want forbidden", err)
	}

	w.grant(false, false, true)
	if err := w.authz.CanAccessConversation(ctx, &w.other, c); err != nil {
		t.Errorf("co-host with can_respond_messages: %v", err)
	}
}

func TestRevocationTakesEffectImmediately(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	p := w.grant(true, false, false)

	if err := w.authz.CanEditListing(ctx, &w.other, w.listing); err != nil {
		t.Fatalf("granted co-host edit: %v", err)
	}
	if err := w.store.DeletePermission(ctx, p.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := w.authz.CanEditListing(ctx, &w.other, w.listing); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("revoked co-host edit: got %v, want forbidden", err)
	}
}

package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"minibnb/internal/app"
	"minibnb/internal/domain"
)

func newListingService(w *world, cache *fakeCache) *app.ListingService {
	return app.NewListingService(w.store, w.store, cache, w.authz, time.Minute)
}

func TestListingGetCachesResult(t *testing.T) {
	w := newWorld()
	cache := newFakeCache()
	svc := newListingService(w, cache)
	ctx := context.Background()

	l, err := svc.Get(ctx, w.listing.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if l.ID != w.listing.ID {
		t.Fatalf("got listing %d, want %d", l.ID, w.listing.ID)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}

	// second read is served from cache even if the row disappears underneath
	if err := w.store.DeleteListing(ctx, w.listing.ID); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	if _, err := svc.Get(ctx, w.listing.ID); err != nil {
		t.Fatalf("cached get: %v", err)
	}
}

func TestListingListClampsLimit(t *testing.T) {
	w := newWorld()
	svc := newListingService(w, newFakeCache())

	for _, limit := range []int{0, -5, 500} {
		if _, err := svc.List(context.Background(), domain.ListingsQuery{Limit: limit}); err != nil {
			t.Fatalf("list with limit %d: %v", limit, err)
		}
	}
}

func TestListingListCacheInvalidation(t *testing.T) {
	w := newWorld()
	cache := newFakeCache()
	svc := newListingService(w, cache)
	ctx := context.Background()

	page, err := svc.List(ctx, domain.ListingsQuery{Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("total = %d, want 1", page.Total)
	}

	if _, err := svc.Create(ctx, &w.host, domain.Listing{Title: "Cabin", PriceCents: 5000, MaxGuests: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// create dropped the filter-hash slots, so the next list sees both rows
	page, err = svc.List(ctx, domain.ListingsQuery{Limit: 20})
	if err != nil {
		t.Fatalf("list after create: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("total after create = %d, want 2", page.Total)
	}
}

func TestListingUpdateInvalidatesItem(t *testing.T) {
	w := newWorld()
	cache := newFakeCache()
	svc := newListingService(w, cache)
	ctx := context.Background()

	if _, err := svc.Get(ctx, w.listing.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	updated, err := svc.Update(ctx, &w.host, w.listing.ID, domain.ListingUpdate{Title: ptr("Renamed")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", updated.Title)
	}

	got, err := svc.Get(ctx, w.listing.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("stale cache after update: title = %q", got.Title)
	}
}

func TestListingUpdateAuthz(t *testing.T) {
	w := newWorld()
	svc := newListingService(w, newFakeCache())
	ctx := context.Background()

	if _, err := svc.Update(ctx, &w.other, w.listing.ID, domain.ListingUpdate{Title: ptr("x")}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger update: got %v, want forbidden", err)
	}

	w.grant(true, false, false)
	if _, err := svc.Update(ctx, &w.other, w.listing.ID, domain.ListingUpdate{Title: ptr("x")}); err != nil {
		t.Fatalf("granted co-host update: %v", err)
	}
}

func TestListingDeleteHostOnly(t *testing.T) {
	w := newWorld()
	svc := newListingService(w, newFakeCache())
	ctx := context.Background()
	w.grant(true, true, true)

	if err := svc.Delete(ctx, &w.other, w.listing.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("co-host delete: got %v, want forbidden", err)
	}
	if err := svc.Delete(ctx, &w.host, w.listing.ID); err != nil {
		t.Fatalf("host delete: %v", err)
	}
	if err := svc.Delete(ctx, &w.host, w.listing.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("double delete: got %v, want not found", err)
	}
}

func TestListingMine(t *testing.T) {
	w := newWorld()
	svc := newListingService(w, newFakeCache())
	ctx := context.Background()

	// host sees owned listings
	mine, err := svc.Mine(ctx, &w.host)
	if err != nil {
		t.Fatalf("host mine: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("host mine = %d listings, want 1", len(mine))
	}

	// plain user is refused
	if _, err := svc.Mine(ctx, &w.other); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("plain user mine: got %v, want forbidden", err)
	}

	// a grant makes the same user a co-host and shows the granted listing
	w.grant(true, false, false)
	cohost, err := w.store.GetUser(ctx, w.other.ID)
	if err != nil {
		t.Fatalf("reload cohost: %v", err)
	}
	if cohost.Role() != domain.RoleCohost {
		t.Fatalf("role = %s, want cohost", cohost.Role())
	}
	mine, err = svc.Mine(ctx, &cohost)
	if err != nil {
		t.Fatalf("cohost mine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != w.listing.ID {
		t.Errorf("cohost mine = %+v, want the granted listing", mine)
	}
}

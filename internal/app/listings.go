package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"minibnb/internal/domain"
)

const listingsKeyPrefix = "listings:"

// ListingService fronts listing reads with a best-effort cache. The cache is
// advisory: every mutation invalidates synchronously, and a cold cache only
// costs latency.
type ListingService struct {
	repo     domain.ListingRepository
	grants   domain.CohostRepository
	cache    domain.Cache
	authz    *Resolver
	cacheTTL time.Duration
}

func NewListingService(r domain.ListingRepository, g domain.CohostRepository, c domain.Cache, authz *Resolver, ttl time.Duration) *ListingService {
	return &ListingService{repo: r, grants: g, cache: c, authz: authz, cacheTTL: ttl}
}

func listingKey(id int64) string { return fmt.Sprintf("listing:%d", id) }

// listQueryKey hashes the filter set so each distinct filter combination gets
// its own cache slot.
func listQueryKey(q domain.ListingsQuery) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%+v", q)))
	return listingsKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *ListingService) Get(ctx context.Context, id int64) (domain.Listing, error) {
	key := listingKey(id)
	var l domain.Listing
	if ok, _ := s.cache.Get(ctx, key, &l); ok {
		return l, nil
	}
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	_ = s.cache.Set(ctx, key, l, int(s.cacheTTL.Seconds()))
	return l, nil
}

func (s *ListingService) List(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	key := listQueryKey(q)
	var page domain.ListingsPage
	if ok, _ := s.cache.Get(ctx, key, &page); ok {
		return page, nil
	}
	page, err := s.repo.ListListings(ctx, q)
	if err != nil {
		return domain.ListingsPage{}, err
	}
	_ = s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds()))
	return page, nil
}

// Mine returns the listings the actor operates: owned ones for a host,
// granted ones for a co-host.
func (s *ListingService) Mine(ctx context.Context, actor *domain.User) ([]domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	switch actor.Role() {
	case domain.RoleHost:
		return s.repo.ListListingsByHost(ctx, actor.ID)
	case domain.RoleCohost:
		perms, err := s.grants.ListPermissionsForCohost(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if len(perms) == 0 {
			return nil, nil
		}
		ids := make([]int64, 0, len(perms))
		for _, p := range perms {
			ids = append(ids, p.ListingID)
		}
		return s.repo.ListListingsByIDs(ctx, ids)
	default:
		return nil, domain.ErrForbidden
	}
}

func (s *ListingService) Create(ctx context.Context, actor *domain.User, l domain.Listing) (domain.Listing, error) {
	if actor == nil {
		return domain.Listing{}, domain.ErrUnauthenticated
	}
	l.HostID = actor.ID
	created, err := s.repo.CreateListing(ctx, l)
	if err != nil {
		return domain.Listing{}, err
	}
	s.invalidateLists(ctx)
	return created, nil
}

func (s *ListingService) Update(ctx context.Context, actor *domain.User, id int64, upd domain.ListingUpdate) (domain.Listing, error) {
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if err := s.authz.CanEditListing(ctx, actor, l); err != nil {
		return domain.Listing{}, err
	}
	updated, err := s.repo.UpdateListing(ctx, id, upd)
	if err != nil {
		return domain.Listing{}, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *ListingService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	l, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.CanDeleteListing(actor, l); err != nil {
		return err
	}
	if err := s.repo.DeleteListing(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ListingService) invalidate(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, listingKey(id))
	s.invalidateLists(ctx)
}

func (s *ListingService) invalidateLists(ctx context.Context) {
	_ = s.cache.DelPattern(ctx, listingsKeyPrefix+"*")
}

package app

import (
	"context"

	"minibnb/internal/domain"
)

type GrantInput struct {
	ListingID          int64
	CohostID           int64
	CanEditListing     bool
	CanManageBookings  bool
	CanRespondMessages bool
}

// CohostService manages capability grants. Roles are derived from grants, so
// creating or revoking a grant changes the target user's effective role with
// no extra writes.
type CohostService struct {
	grants   domain.CohostRepository
	listings domain.ListingRepository
	users    domain.UserRepository
	authz    *Resolver
}

func NewCohostService(g domain.CohostRepository, l domain.ListingRepository, u domain.UserRepository, authz *Resolver) *CohostService {
	return &CohostService{grants: g, listings: l, users: u, authz: authz}
}

func (s *CohostService) ListForHost(ctx context.Context, actor *domain.User) ([]domain.CohostPermission, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.grants.ListPermissionsForHost(ctx, actor.ID)
}

func (s *CohostService) Grant(ctx context.Context, actor *domain.User, in GrantInput) (domain.CohostPermission, error) {
	if actor == nil {
		return domain.CohostPermission{}, domain.ErrUnauthenticated
	}
	l, err := s.listings.GetListing(ctx, in.ListingID)
	if err != nil {
		return domain.CohostPermission{}, err
	}
	if err := s.authz.CanManageCohosts(actor, l); err != nil {
		return domain.CohostPermission{}, err
	}
	if in.CohostID == actor.ID {
		return domain.CohostPermission{}, domain.ErrForbidden
	}
	if _, err := s.users.GetUser(ctx, in.CohostID); err != nil {
		return domain.CohostPermission{}, err
	}
	return s.grants.CreatePermission(ctx, domain.CohostPermission{
		ListingID:          l.ID,
		HostID:             actor.ID,
		CohostID:           in.CohostID,
		CanEditListing:     in.CanEditListing,
		CanManageBookings:  in.CanManageBookings,
		CanRespondMessages: in.CanRespondMessages,
	})
}

func (s *CohostService) Update(ctx context.Context, actor *domain.User, id int64, upd domain.CohostUpdate) (domain.CohostPermission, error) {
	if actor == nil {
		return domain.CohostPermission{}, domain.ErrUnauthenticated
	}
	p, err := s.grants.GetPermission(ctx, id)
	if err != nil {
		return domain.CohostPermission{}, err
	}
	if p.HostID != actor.ID {
		return domain.CohostPermission{}, domain.ErrForbidden
	}
	return s.grants.UpdatePermission(ctx, id, upd)
}

func (s *CohostService) Revoke(ctx context.Context, actor *domain.User, id int64) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	p, err := s.grants.GetPermission(ctx, id)
	if err != nil {
		return err
	}
	if p.HostID != actor.ID {
		return domain.ErrForbidden
	}
	return s.grants.DeletePermission(ctx, id)
}

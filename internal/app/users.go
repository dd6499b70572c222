package app

import (
	"context"

	"minibnb/internal/domain"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(u domain.UserRepository) *UserService {
	return &UserService{users: u}
}

func (s *UserService) Profile(ctx context.Context, actor *domain.User) (domain.User, error) {
	if actor == nil {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return s.users.GetUser(ctx, actor.ID)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, upd domain.ProfileUpdate) (domain.User, error) {
	if actor == nil {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return s.users.UpdateProfile(ctx, actor.ID, upd)
}

func (s *UserService) BecomeHost(ctx context.Context, actor *domain.User) (domain.User, error) {
	if actor == nil {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return s.users.SetHost(ctx, actor.ID)
}

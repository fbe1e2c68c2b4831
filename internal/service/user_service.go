package service

import (
	"context"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/pkg/cache"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
	GetBalance(ctx context.Context, userId uuid.UUID) (int64, error)
}

type userService struct {
	uowFactory   unitofwork.RepositoryFactory
	balanceCache cache.IBalanceCache
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, balanceCache cache.IBalanceCache) IUserService {
	return &userService{
		uowFactory:   uowFactory,
		balanceCache: balanceCache,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.balanceCache.Set(ctx, userId, user.Credits)
	return toUserResponse(user), nil
}

// GetBalance serves the credit counter shown on every page. Reads hit the
// Redis cache first; the database is authoritative on a miss.
func (s *userService) GetBalance(ctx context.Context, userId uuid.UUID) (int64, error) {
	if balance, ok := s.balanceCache.Get(ctx, userId); ok {
		return balance, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	s.balanceCache.Set(ctx, userId, user.Credits)
	return user.Credits, nil
}

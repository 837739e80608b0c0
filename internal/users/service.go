package users

import (
	"context"
	"fmt"

	"github.com/priceless-app/priceless-backend/pkg/db"
	"github.com/priceless-app/priceless-backend/pkg/db/models"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// Service exposes mirrored user operations.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUserID(ctx context.Context, userID string) (*models.User, error)
	GetUserByAddress(ctx context.Context, address string) (*models.User, error)
	ListUsers(ctx context.Context, params pagination.Params) ([]models.User, types.PaginationMeta, error)
	UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) (*models.User, error)
}

// CreateUserInput holds the validated payload to mirror a user object.
type CreateUserInput struct {
	UserID               string
	UserAddress          string
	UserOwnerAddress     string
	SubscriptionFee      types.U64
	SubscriptionDeadline types.U64
	RegisteredAt         types.U64
	Active               bool
}

// UpdateUserInput holds optional mutation values; nil fields are untouched.
type UpdateUserInput struct {
	UserAddress          *string
	SubscriptionFee      *types.U64
	SubscriptionDeadline *types.U64
	Active               *bool
}

type service struct {
	repo Repository
}

// NewService constructs a user service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	user := &models.User{
		UserID:               input.UserID,
		UserAddress:          input.UserAddress,
		UserOwnerAddress:     input.UserOwnerAddress,
		SubscriptionFee:      input.SubscriptionFee,
		SubscriptionDeadline: input.SubscriptionDeadline,
		RegisteredAt:         input.RegisteredAt,
		Active:               input.Active,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user with this wallet address already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert user")
	}
	return created, nil
}

func (s *service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find user")
	}
	return user, nil
}

func (s *service) GetUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find user by user id")
	}
	return user, nil
}

func (s *service) GetUserByAddress(ctx context.Context, address string) (*models.User, error) {
	user, err := s.repo.FindByOwnerAddress(ctx, address)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find user by address")
	}
	return user, nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params) ([]models.User, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list users")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find user")
	}

	if input.UserAddress != nil {
		user.UserAddress = *input.UserAddress
	}
	if input.SubscriptionFee != nil {
		user.SubscriptionFee = *input.SubscriptionFee
	}
	if input.SubscriptionDeadline != nil {
		user.SubscriptionDeadline = *input.SubscriptionDeadline
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user with this wallet address already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update user")
	}
	return saved, nil
}

// DeleteUser removes a mirrored user and returns the deleted row.
func (s *service) DeleteUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find user")
	}
	if err := s.repo.Delete(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete user")
	}
	return user, nil
}

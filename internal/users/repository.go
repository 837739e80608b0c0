package users

import (
	"context"

	"github.com/priceless-app/priceless-backend/pkg/db/models"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository defines persistence operations for mirrored users.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	FindByOwnerAddress(ctx context.Context, address string) (*models.User, error)
	List(ctx context.Context, window pagination.Window) ([]models.User, int64, error)
	Save(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, user *models.User) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("BuyOffers").
		Preload("ManualBuys").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("BuyOffers").
		Preload("ManualBuys").
		First(&user, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByOwnerAddress(ctx context.Context, address string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("BuyOffers").
		Preload("ManualBuys").
		First(&user, "user_owner_address = ?", address).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns one page of users plus the total count. The page query and
// the count run in parallel against the same predicate.
func (r *repository) List(ctx context.Context, window pagination.Window) ([]models.User, int64, error) {
	var (
		rows  []models.User
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Preload("BuyOffers").
			Preload("ManualBuys").
			Order("registered_at DESC").
			Offset(window.Skip).
			Limit(window.Take).
			Find(&rows).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.User{}).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) Delete(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Delete(user).Error
}

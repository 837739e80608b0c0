package buyoffers

import (
	"context"

	"github.com/priceless-app/priceless-backend/pkg/db/models"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"github.com/priceless-app/priceless-backend/pkg/types"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository defines persistence operations for mirrored buy offers.
type Repository interface {
	Create(ctx context.Context, offer *models.BuyOffer) (*models.BuyOffer, error)
	FindByID(ctx context.Context, id uint) (*models.BuyOffer, error)
	FindByBuyOfferID(ctx context.Context, buyOfferID string) (*models.BuyOffer, error)
	List(ctx context.Context, window pagination.Window) ([]models.BuyOffer, int64, error)
	ListByOwner(ctx context.Context, owner string, window pagination.Window) ([]models.BuyOffer, int64, error)
	ListActiveByDeadline(ctx context.Context, after types.U64, window pagination.Window) ([]models.BuyOffer, int64, error)
	Save(ctx context.Context, offer *models.BuyOffer) (*models.BuyOffer, error)
	Delete(ctx context.Context, offer *models.BuyOffer) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a buy offer repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, offer *models.BuyOffer) (*models.BuyOffer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.BuyOffer, error) {
	var offer models.BuyOffer
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("SellOffers").
		Preload("ManualBuys").
		First(&offer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) FindByBuyOfferID(ctx context.Context, buyOfferID string) (*models.BuyOffer, error) {
	var offer models.BuyOffer
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("SellOffers").
		Preload("ManualBuys").
		First(&offer, "buy_offer_id = ?", buyOfferID).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) List(ctx context.Context, window pagination.Window) ([]models.BuyOffer, int64, error) {
	return r.listWhere(ctx, window, "", nil)
}

func (r *repository) ListByOwner(ctx context.Context, owner string, window pagination.Window) ([]models.BuyOffer, int64, error) {
	return r.listWhere(ctx, window, "owner = ?", []any{owner})
}

// ListActiveByDeadline returns time-based offers whose deadline has not
// passed, soonest deadline first.
func (r *repository) ListActiveByDeadline(ctx context.Context, after types.U64, window pagination.Window) ([]models.BuyOffer, int64, error) {
	var (
		rows  []models.BuyOffer
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Preload("SellOffers").
			Where("offer_type_is_time_based = ? AND deadline >= ?", true, after).
			Order("deadline ASC").
			Offset(window.Skip).
			Limit(window.Take).
			Find(&rows).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.BuyOffer{}).
			Where("offer_type_is_time_based = ? AND deadline >= ?", true, after).
			Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) listWhere(ctx context.Context, window pagination.Window, cond string, args []any) ([]models.BuyOffer, int64, error) {
	var (
		rows  []models.BuyOffer
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := r.db.WithContext(gctx).
			Preload("SellOffers").
			Preload("ManualBuys")
		if cond != "" {
			q = q.Where(cond, args...)
		}
		return q.Order("created_at DESC").
			Offset(window.Skip).
			Limit(window.Take).
			Find(&rows).Error
	})
	g.Go(func() error {
		q := r.db.WithContext(gctx).Model(&models.BuyOffer{})
		if cond != "" {
			q = q.Where(cond, args...)
		}
		return q.Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Save(ctx context.Context, offer *models.BuyOffer) (*models.BuyOffer, error) {
	if err := r.db.WithContext(ctx).Save(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) Delete(ctx context.Context, offer *models.BuyOffer) error {
	return r.db.WithContext(ctx).Delete(offer).Error
}

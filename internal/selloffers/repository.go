package selloffers

import (
	"context"

	"github.com/priceless-app/priceless-backend/pkg/db/models"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository defines persistence operations for mirrored sell offers.
type Repository interface {
	Create(ctx context.Context, offer *models.SellOffer) (*models.SellOffer, error)
	FindByID(ctx context.Context, id uint) (*models.SellOffer, error)
	FindBySellOfferID(ctx context.Context, sellOfferID string) (*models.SellOffer, error)
	List(ctx context.Context, window pagination.Window) ([]models.SellOffer, int64, error)
	ListByBuyOffer(ctx context.Context, buyOfferID string, window pagination.Window) ([]models.SellOffer, int64, error)
	ListByAgent(ctx context.Context, agentID string, window pagination.Window) ([]models.SellOffer, int64, error)
	Save(ctx context.Context, offer *models.SellOffer) (*models.SellOffer, error)
	Delete(ctx context.Context, offer *models.SellOffer) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sell offer repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, offer *models.SellOffer) (*models.SellOffer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.SellOffer, error) {
	var offer models.SellOffer
	err := r.db.WithContext(ctx).
		Preload("BuyOffer").
		First(&offer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) FindBySellOfferID(ctx context.Context, sellOfferID string) (*models.SellOffer, error) {
	var offer models.SellOffer
	err := r.db.WithContext(ctx).
		Preload("BuyOffer").
		First(&offer, "sell_offer_id = ?", sellOfferID).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) List(ctx context.Context, window pagination.Window) ([]models.SellOffer, int64, error) {
	return r.listWhere(ctx, window, "", nil)
}

func (r *repository) ListByBuyOffer(ctx context.Context, buyOfferID string, window pagination.Window) ([]models.SellOffer, int64, error) {
	return r.listWhere(ctx, window, "buy_offer_id = ?", []any{buyOfferID})
}

func (r *repository) ListByAgent(ctx context.Context, agentID string, window pagination.Window) ([]models.SellOffer, int64, error) {
	return r.listWhere(ctx, window, "agent_id = ?", []any{agentID})
}

func (r *repository) listWhere(ctx context.Context, window pagination.Window, cond string, args []any) ([]models.SellOffer, int64, error) {
	var (
		rows  []models.SellOffer
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := r.db.WithContext(gctx).Preload("BuyOffer")
		if cond != "" {
			q = q.Where(cond, args...)
		}
		return q.Order("mirrored_at DESC").
			Offset(window.Skip).
			Limit(window.Take).
			Find(&rows).Error
	})
	g.Go(func() error {
		q := r.db.WithContext(gctx).Model(&models.SellOffer{})
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

func (r *repository) Save(ctx context.Context, offer *models.SellOffer) (*models.SellOffer, error) {
	if err := r.db.WithContext(ctx).Save(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

func (r *repository) Delete(ctx context.Context, offer *models.SellOffer) error {
	return r.db.WithContext(ctx).Delete(offer).Error
}

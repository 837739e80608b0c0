package shoppurchases

import (
	"context"

	"github.com/priceless-app/priceless-backend/pkg/db/models"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository defines persistence operations for mirrored shop purchases.
type Repository interface {
	Create(ctx context.Context, purchase *models.ShopPurchase) (*models.ShopPurchase, error)
	FindByID(ctx context.Context, id uint) (*models.ShopPurchase, error)
	List(ctx context.Context, window pagination.Window) ([]models.ShopPurchase, int64, error)
	ListByAgent(ctx context.Context, agentID string, window pagination.Window) ([]models.ShopPurchase, int64, error)
	ListBySellOffer(ctx context.Context, sellOfferID string, window pagination.Window) ([]models.ShopPurchase, int64, error)
	Delete(ctx context.Context, purchase *models.ShopPurchase) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a shop purchase repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, purchase *models.ShopPurchase) (*models.ShopPurchase, error) {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.ShopPurchase, error) {
	var purchase models.ShopPurchase
	if err := r.db.WithContext(ctx).First(&purchase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) List(ctx context.Context, window pagination.Window) ([]models.ShopPurchase, int64, error) {
	return r.listWhere(ctx, window, "", nil)
}

func (r *repository) ListByAgent(ctx context.Context, agentID string, window pagination.Window) ([]models.ShopPurchase, int64, error) {
	return r.listWhere(ctx, window, "agent_id = ?", []any{agentID})
}

func (r *repository) ListBySellOffer(ctx context.Context, sellOfferID string, window pagination.Window) ([]models.ShopPurchase, int64, error) {
	return r.listWhere(ctx, window, "sell_offer_id = ?", []any{sellOfferID})
}

func (r *repository) listWhere(ctx context.Context, window pagination.Window, cond string, args []any) ([]models.ShopPurchase, int64, error) {
	var (
		rows  []models.ShopPurchase
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := r.db.WithContext(gctx)
		if cond != "" {
			q = q.Where(cond, args...)
		}
		return q.Order("mirrored_at DESC").
			Offset(window.Skip).
			Limit(window.Take).
			Find(&rows).Error
	})
	g.Go(func() error {
		q := r.db.WithContext(gctx).Model(&models.ShopPurchase{})
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

func (r *repository) Delete(ctx context.Context, purchase *models.ShopPurchase) error {
	return r.db.WithContext(ctx).Delete(purchase).Error
}

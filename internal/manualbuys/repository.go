package manualbuys

import (
	"context"

	"github.com/priceless-app/priceless-backend/pkg/db/models"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository defines persistence operations for mirrored manual buys.
type Repository interface {
	Create(ctx context.Context, buy *models.ManualBuy) (*models.ManualBuy, error)
	FindByID(ctx context.Context, id uint) (*models.ManualBuy, error)
	List(ctx context.Context, window pagination.Window) ([]models.ManualBuy, int64, error)
	ListByBuyer(ctx context.Context, buyer string, window pagination.Window) ([]models.ManualBuy, int64, error)
	ListByAgent(ctx context.Context, agentID string, window pagination.Window) ([]models.ManualBuy, int64, error)
	ListByBuyOffer(ctx context.Context, buyOfferID string, window pagination.Window) ([]models.ManualBuy, int64, error)
	Delete(ctx context.Context, buy *models.ManualBuy) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a manual buy repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, buy *models.ManualBuy) (*models.ManualBuy, error) {
	if err := r.db.WithContext(ctx).Create(buy).Error; err != nil {
		return nil, err
	}
	return buy, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.ManualBuy, error) {
	var buy models.ManualBuy
	if err := r.db.WithContext(ctx).First(&buy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &buy, nil
}

func (r *repository) List(ctx context.Context, window pagination.Window) ([]models.ManualBuy, int64, error) {
	return r.listWhere(ctx, window, "", nil)
}

func (r *repository) ListByBuyer(ctx context.Context, buyer string, window pagination.Window) ([]models.ManualBuy, int64, error) {
	return r.listWhere(ctx, window, "buyer = ?", []any{buyer})
}

func (r *repository) ListByAgent(ctx context.Context, agentID string, window pagination.Window) ([]models.ManualBuy, int64, error) {
	return r.listWhere(ctx, window, "agent_id = ?", []any{agentID})
}

func (r *repository) ListByBuyOffer(ctx context.Context, buyOfferID string, window pagination.Window) ([]models.ManualBuy, int64, error) {
	return r.listWhere(ctx, window, "buy_offer_id = ?", []any{buyOfferID})
}

func (r *repository) listWhere(ctx context.Context, window pagination.Window, cond string, args []any) ([]models.ManualBuy, int64, error) {
	var (
		rows  []models.ManualBuy
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
		q := r.db.WithContext(gctx).Model(&models.ManualBuy{})
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

func (r *repository) Delete(ctx context.Context, buy *models.ManualBuy) error {
	return r.db.WithContext(ctx).Delete(buy).Error
}

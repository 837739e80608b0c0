package shoppurchases

import (
	"context"
	"fmt"

	"github.com/priceless-app/priceless-backend/pkg/db"
	"github.com/priceless-app/priceless-backend/pkg/db/models"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// Service exposes mirrored shop purchase operations. Like manual buys these
// are immutable once mirrored.
type Service interface {
	CreateShopPurchase(ctx context.Context, input CreateShopPurchaseInput) (*models.ShopPurchase, error)
	GetShopPurchase(ctx context.Context, id uint) (*models.ShopPurchase, error)
	ListShopPurchases(ctx context.Context, params pagination.Params) ([]models.ShopPurchase, types.PaginationMeta, error)
	ListShopPurchasesByAgent(ctx context.Context, agentID string, params pagination.Params) ([]models.ShopPurchase, types.PaginationMeta, error)
	ListShopPurchasesBySellOffer(ctx context.Context, sellOfferID string, params pagination.Params) ([]models.ShopPurchase, types.PaginationMeta, error)
	DeleteShopPurchase(ctx context.Context, id uint) (*models.ShopPurchase, error)
}

// CreateShopPurchaseInput holds the validated payload to mirror a shop purchase.
type CreateShopPurchaseInput struct {
	AgentID      string
	SellOfferID  string
	StoreLink    string
	ProductPrice types.U64
	AgentFee     types.U64
	PlatformFee  types.U64
}

type service struct {
	repo Repository
}

// NewService constructs a shop purchase service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop purchase repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateShopPurchase(ctx context.Context, input CreateShopPurchaseInput) (*models.ShopPurchase, error) {
	purchase := &models.ShopPurchase{
		AgentID:      input.AgentID,
		SellOfferID:  input.SellOfferID,
		StoreLink:    input.StoreLink,
		ProductPrice: input.ProductPrice,
		AgentFee:     input.AgentFee,
		PlatformFee:  input.PlatformFee,
	}

	created, err := s.repo.Create(ctx, purchase)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shop purchase already mirrored")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert shop purchase")
	}
	return created, nil
}

func (s *service) GetShopPurchase(ctx context.Context, id uint) (*models.ShopPurchase, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find shop purchase")
	}
	return purchase, nil
}

func (s *service) ListShopPurchases(ctx context.Context, params pagination.Params) ([]models.ShopPurchase, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list shop purchases")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListShopPurchasesByAgent(ctx context.Context, agentID string, params pagination.Params) ([]models.ShopPurchase, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListByAgent(ctx, agentID, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list shop purchases by agent")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListShopPurchasesBySellOffer(ctx context.Context, sellOfferID string, params pagination.Params) ([]models.ShopPurchase, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListBySellOffer(ctx, sellOfferID, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list shop purchases by sell offer")
	}
	return rows, pagination.Meta(int(total), window), nil
}

// DeleteShopPurchase removes a mis-mirrored purchase and returns the deleted row.
func (s *service) DeleteShopPurchase(ctx context.Context, id uint) (*models.ShopPurchase, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find shop purchase")
	}
	if err := s.repo.Delete(ctx, purchase); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete shop purchase")
	}
	return purchase, nil
}

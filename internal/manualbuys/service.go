package manualbuys

import (
	"context"
	"fmt"

	"github.com/priceless-app/priceless-backend/pkg/db"
	"github.com/priceless-app/priceless-backend/pkg/db/models"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// Service exposes mirrored manual buy operations. Manual buys are immutable
// once mirrored; there is no update path.
type Service interface {
	CreateManualBuy(ctx context.Context, input CreateManualBuyInput) (*models.ManualBuy, error)
	GetManualBuy(ctx context.Context, id uint) (*models.ManualBuy, error)
	ListManualBuys(ctx context.Context, params pagination.Params) ([]models.ManualBuy, types.PaginationMeta, error)
	ListManualBuysByBuyer(ctx context.Context, buyer string, params pagination.Params) ([]models.ManualBuy, types.PaginationMeta, error)
	ListManualBuysByAgent(ctx context.Context, agentID string, params pagination.Params) ([]models.ManualBuy, types.PaginationMeta, error)
	ListManualBuysByBuyOffer(ctx context.Context, buyOfferID string, params pagination.Params) ([]models.ManualBuy, types.PaginationMeta, error)
	DeleteManualBuy(ctx context.Context, id uint) (*models.ManualBuy, error)
}

// CreateManualBuyInput holds the validated payload to mirror a manual buy.
type CreateManualBuyInput struct {
	BuyOfferID   string
	Buyer        string
	AgentID      string
	SellOfferID  string
	StoreLink    string
	ProductPrice types.U64
	AgentFee     types.U64
	TotalPaid    types.U64
}

type service struct {
	repo Repository
}

// NewService constructs a manual buy service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("manual buy repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateManualBuy(ctx context.Context, input CreateManualBuyInput) (*models.ManualBuy, error) {
	buy := &models.ManualBuy{
		BuyOfferID:   input.BuyOfferID,
		Buyer:        input.Buyer,
		AgentID:      input.AgentID,
		SellOfferID:  input.SellOfferID,
		StoreLink:    input.StoreLink,
		ProductPrice: input.ProductPrice,
		AgentFee:     input.AgentFee,
		TotalPaid:    input.TotalPaid,
	}

	created, err := s.repo.Create(ctx, buy)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "manual buy already mirrored")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert manual buy")
	}
	return created, nil
}

func (s *service) GetManualBuy(ctx context.Context, id uint) (*models.ManualBuy, error) {
	buy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manual buy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find manual buy")
	}
	return buy, nil
}

func (s *service) ListManualBuys(ctx context.Context, params pagination.Params) ([]models.ManualBuy, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list manual buys")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListManualBuysByBuyer(ctx context.Context, buyer string, params pagination.Params) ([]models.ManualBuy, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListByBuyer(ctx, buyer, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list manual buys by buyer")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListManualBuysByAgent(ctx context.Context, agentID string, params pagination.Params) ([]models.ManualBuy, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListByAgent(ctx, agentID, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list manual buys by agent")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListManualBuysByBuyOffer(ctx context.Context, buyOfferID string, params pagination.Params) ([]models.ManualBuy, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListByBuyOffer(ctx, buyOfferID, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list manual buys by buy offer")
	}
	return rows, pagination.Meta(int(total), window), nil
}

// DeleteManualBuy removes a mis-mirrored manual buy and returns the deleted row.
func (s *service) DeleteManualBuy(ctx context.Context, id uint) (*models.ManualBuy, error) {
	buy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "manual buy not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find manual buy")
	}
	if err := s.repo.Delete(ctx, buy); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete manual buy")
	}
	return buy, nil
}

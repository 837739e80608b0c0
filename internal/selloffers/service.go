package selloffers

import (
	"context"
	"fmt"

	"github.com/priceless-app/priceless-backend/pkg/db"
	"github.com/priceless-app/priceless-backend/pkg/db/models"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// Service exposes mirrored sell offer operations.
type Service interface {
	CreateSellOffer(ctx context.Context, input CreateSellOfferInput) (*models.SellOffer, error)
	GetSellOffer(ctx context.Context, id uint) (*models.SellOffer, error)
	GetSellOfferByBlockchainID(ctx context.Context, sellOfferID string) (*models.SellOffer, error)
	ListSellOffers(ctx context.Context, params pagination.Params) ([]models.SellOffer, types.PaginationMeta, error)
	ListSellOffersByBuyOffer(ctx context.Context, buyOfferID string, params pagination.Params) ([]models.SellOffer, types.PaginationMeta, error)
	ListSellOffersByAgent(ctx context.Context, agentID string, params pagination.Params) ([]models.SellOffer, types.PaginationMeta, error)
	UpdateSellOffer(ctx context.Context, id uint, input UpdateSellOfferInput) (*models.SellOffer, error)
	DeleteSellOffer(ctx context.Context, id uint) (*models.SellOffer, error)
}

// CreateSellOfferInput holds the validated payload to mirror a sell offer.
type CreateSellOfferInput struct {
	SellOfferID  string
	BuyOfferID   string
	AgentID      string
	AgentAddress string
	StoreLink    string
	Price        types.U64
	IsUpdate     bool
}

// UpdateSellOfferInput holds optional mutation values; nil fields are untouched.
type UpdateSellOfferInput struct {
	StoreLink *string
	Price     *types.U64
	IsUpdate  *bool
}

type buyOfferReader interface {
	FindByBuyOfferID(ctx context.Context, buyOfferID string) (*models.BuyOffer, error)
}

type service struct {
	repo      Repository
	buyOffers buyOfferReader
}

// NewService constructs a sell offer service instance.
func NewService(repo Repository, buyOffers buyOfferReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sell offer repository required")
	}
	if buyOffers == nil {
		return nil, fmt.Errorf("buy offer reader required")
	}
	return &service{repo: repo, buyOffers: buyOffers}, nil
}

func (s *service) CreateSellOffer(ctx context.Context, input CreateSellOfferInput) (*models.SellOffer, error) {
	// A sell offer answers an existing buy offer; reject orphans before the
	// insert so the error surfaces as a 404 rather than an FK failure.
	if _, err := s.buyOffers.FindByBuyOfferID(ctx, input.BuyOfferID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buy offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find buy offer")
	}

	offer := &models.SellOffer{
		SellOfferID:  input.SellOfferID,
		BuyOfferID:   input.BuyOfferID,
		AgentID:      input.AgentID,
		AgentAddress: input.AgentAddress,
		StoreLink:    input.StoreLink,
		Price:        input.Price,
		IsUpdate:     input.IsUpdate,
	}

	created, err := s.repo.Create(ctx, offer)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sell offer with this blockchain id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert sell offer")
	}
	return created, nil
}

func (s *service) GetSellOffer(ctx context.Context, id uint) (*models.SellOffer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sell offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find sell offer")
	}
	return offer, nil
}

func (s *service) GetSellOfferByBlockchainID(ctx context.Context, sellOfferID string) (*models.SellOffer, error) {
	offer, err := s.repo.FindBySellOfferID(ctx, sellOfferID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sell offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find sell offer by blockchain id")
	}
	return offer, nil
}

func (s *service) ListSellOffers(ctx context.Context, params pagination.Params) ([]models.SellOffer, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list sell offers")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListSellOffersByBuyOffer(ctx context.Context, buyOfferID string, params pagination.Params) ([]models.SellOffer, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListByBuyOffer(ctx, buyOfferID, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list sell offers by buy offer")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListSellOffersByAgent(ctx context.Context, agentID string, params pagination.Params) ([]models.SellOffer, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListByAgent(ctx, agentID, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list sell offers by agent")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) UpdateSellOffer(ctx context.Context, id uint, input UpdateSellOfferInput) (*models.SellOffer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sell offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find sell offer")
	}

	if input.StoreLink != nil {
		offer.StoreLink = *input.StoreLink
	}
	if input.Price != nil {
		offer.Price = *input.Price
	}
	if input.IsUpdate != nil {
		offer.IsUpdate = *input.IsUpdate
	}

	saved, err := s.repo.Save(ctx, offer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update sell offer")
	}
	return saved, nil
}

// DeleteSellOffer removes a mirrored sell offer and returns the deleted row.
func (s *service) DeleteSellOffer(ctx context.Context, id uint) (*models.SellOffer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sell offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find sell offer")
	}
	if err := s.repo.Delete(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete sell offer")
	}
	return offer, nil
}

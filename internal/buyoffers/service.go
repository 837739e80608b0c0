package buyoffers

import (
	"context"
	"fmt"

	"github.com/priceless-app/priceless-backend/pkg/db"
	"github.com/priceless-app/priceless-backend/pkg/db/models"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// Service exposes mirrored buy offer operations.
type Service interface {
	CreateBuyOffer(ctx context.Context, input CreateBuyOfferInput) (*models.BuyOffer, error)
	GetBuyOffer(ctx context.Context, id uint) (*models.BuyOffer, error)
	GetBuyOfferByBlockchainID(ctx context.Context, buyOfferID string) (*models.BuyOffer, error)
	ListBuyOffers(ctx context.Context, params pagination.Params) ([]models.BuyOffer, types.PaginationMeta, error)
	ListBuyOffersByOwner(ctx context.Context, owner string, params pagination.Params) ([]models.BuyOffer, types.PaginationMeta, error)
	ListActiveBuyOffers(ctx context.Context, after types.U64, params pagination.Params) ([]models.BuyOffer, types.PaginationMeta, error)
	UpdateBuyOffer(ctx context.Context, id uint, input UpdateBuyOfferInput) (*models.BuyOffer, error)
	DeleteBuyOffer(ctx context.Context, id uint) (*models.BuyOffer, error)
}

// CreateBuyOfferInput holds the validated payload to mirror a buy offer.
type CreateBuyOfferInput struct {
	BuyOfferID           string
	Owner                string
	Product              string
	Price                types.U64
	OfferTypeIsTimeBased bool
	Deadline             types.U64
	CreatedAt            types.U64
}

// UpdateBuyOfferInput holds optional mutation values; nil fields are untouched.
type UpdateBuyOfferInput struct {
	Product              *string
	Price                *types.U64
	OfferTypeIsTimeBased *bool
	Deadline             *types.U64
}

type service struct {
	repo Repository
}

// NewService constructs a buy offer service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("buy offer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateBuyOffer(ctx context.Context, input CreateBuyOfferInput) (*models.BuyOffer, error) {
	offer := &models.BuyOffer{
		BuyOfferID:           input.BuyOfferID,
		Owner:                input.Owner,
		Product:              input.Product,
		Price:                input.Price,
		OfferTypeIsTimeBased: input.OfferTypeIsTimeBased,
		Deadline:             input.Deadline,
		CreatedAt:            input.CreatedAt,
	}

	created, err := s.repo.Create(ctx, offer)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "buy offer with this blockchain id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert buy offer")
	}
	return created, nil
}

func (s *service) GetBuyOffer(ctx context.Context, id uint) (*models.BuyOffer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buy offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find buy offer")
	}
	return offer, nil
}

func (s *service) GetBuyOfferByBlockchainID(ctx context.Context, buyOfferID string) (*models.BuyOffer, error) {
	offer, err := s.repo.FindByBuyOfferID(ctx, buyOfferID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buy offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find buy offer by blockchain id")
	}
	return offer, nil
}

func (s *service) ListBuyOffers(ctx context.Context, params pagination.Params) ([]models.BuyOffer, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list buy offers")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListBuyOffersByOwner(ctx context.Context, owner string, params pagination.Params) ([]models.BuyOffer, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListByOwner(ctx, owner, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list buy offers by owner")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) ListActiveBuyOffers(ctx context.Context, after types.U64, params pagination.Params) ([]models.BuyOffer, types.PaginationMeta, error) {
	window := pagination.Normalize(params)
	rows, total, err := s.repo.ListActiveByDeadline(ctx, after, window)
	if err != nil {
		return nil, types.PaginationMeta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list active buy offers")
	}
	return rows, pagination.Meta(int(total), window), nil
}

func (s *service) UpdateBuyOffer(ctx context.Context, id uint, input UpdateBuyOfferInput) (*models.BuyOffer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buy offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find buy offer")
	}

	if input.Product != nil {
		offer.Product = *input.Product
	}
	if input.Price != nil {
		offer.Price = *input.Price
	}
	if input.OfferTypeIsTimeBased != nil {
		offer.OfferTypeIsTimeBased = *input.OfferTypeIsTimeBased
	}
	if input.Deadline != nil {
		offer.Deadline = *input.Deadline
	}

	saved, err := s.repo.Save(ctx, offer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update buy offer")
	}
	return saved, nil
}

// DeleteBuyOffer removes a mirrored buy offer and returns the deleted row.
// Mirrored sell offers referencing it are removed by the FK cascade.
func (s *service) DeleteBuyOffer(ctx context.Context, id uint) (*models.BuyOffer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buy offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find buy offer")
	}
	if err := s.repo.Delete(ctx, offer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete buy offer")
	}
	return offer, nil
}

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/priceless-app/priceless-backend/api/responses"
	"github.com/priceless-app/priceless-backend/api/validators"
	"github.com/priceless-app/priceless-backend/internal/buyoffers"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

type createBuyOfferRequest struct {
	BuyOfferID           string       `json:"buy_offer_id" validate:"required"`
	Owner                string       `json:"owner" validate:"required,len=66"`
	Product              string       `json:"product" validate:"required"`
	Price                types.Amount `json:"price" validate:"min=0"`
	OfferTypeIsTimeBased bool         `json:"offer_type_is_time_based"`
	Deadline             types.Amount `json:"deadline" validate:"min=0"`
	CreatedAt            types.Amount `json:"created_at" validate:"min=0"`
}

func (r createBuyOfferRequest) toInput() buyoffers.CreateBuyOfferInput {
	return buyoffers.CreateBuyOfferInput{
		BuyOfferID:           r.BuyOfferID,
		Owner:                r.Owner,
		Product:              r.Product,
		Price:                r.Price.U64(),
		OfferTypeIsTimeBased: r.OfferTypeIsTimeBased,
		Deadline:             r.Deadline.U64(),
		CreatedAt:            r.CreatedAt.U64(),
	}
}

type updateBuyOfferRequest struct {
	Product              *string       `json:"product,omitempty" validate:"omitempty,min=1"`
	Price                *types.Amount `json:"price,omitempty" validate:"omitempty,min=0"`
	OfferTypeIsTimeBased *bool         `json:"offer_type_is_time_based,omitempty"`
	Deadline             *types.Amount `json:"deadline,omitempty" validate:"omitempty,min=0"`
}

func (r updateBuyOfferRequest) toInput() buyoffers.UpdateBuyOfferInput {
	return buyoffers.UpdateBuyOfferInput{
		Product:              r.Product,
		Price:                u64Ptr(r.Price),
		OfferTypeIsTimeBased: r.OfferTypeIsTimeBased,
		Deadline:             u64Ptr(r.Deadline),
	}
}

// BuyOfferCreate mirrors a buy offer created on chain.
func BuyOfferCreate(svc buyoffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createBuyOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offer, err := svc.CreateBuyOffer(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

// BuyOfferList returns one page of buy offers, newest chain timestamp first.
func BuyOfferList(svc buyoffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListBuyOffers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// BuyOfferListByOwner returns a wallet's buy offers.
func BuyOfferListByOwner(svc buyoffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owner := chi.URLParam(r, "address")
		rows, meta, err := svc.ListBuyOffersByOwner(r.Context(), owner, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// BuyOfferListActive returns time-based offers whose deadline is still
// ahead, ordered soonest first.
func BuyOfferListActive(svc buyoffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := types.U64(time.Now().UnixMilli())
		rows, meta, err := svc.ListActiveBuyOffers(r.Context(), now, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// BuyOfferGet fetches a buy offer by row id.
func BuyOfferGet(svc buyoffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.GetBuyOffer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// BuyOfferGetByBlockchainID fetches a buy offer by the on-chain object id.
func BuyOfferGetByBlockchainID(svc buyoffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offer, err := svc.GetBuyOfferByBlockchainID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// BuyOfferUpdate applies a partial patch to a mirrored buy offer.
func BuyOfferUpdate(svc buyoffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBuyOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offer, err := svc.UpdateBuyOffer(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// BuyOfferDelete removes a mirrored buy offer, echoing the deleted row.
func BuyOfferDelete(svc buyoffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.DeleteBuyOffer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

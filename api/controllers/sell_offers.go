package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priceless-app/priceless-backend/api/responses"
	"github.com/priceless-app/priceless-backend/api/validators"
	"github.com/priceless-app/priceless-backend/internal/selloffers"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

type createSellOfferRequest struct {
	SellOfferID  string       `json:"sell_offer_id" validate:"required"`
	BuyOfferID   string       `json:"buy_offer_id" validate:"required"`
	AgentID      string       `json:"agent_id" validate:"required"`
	AgentAddress string       `json:"agent_address" validate:"required,len=66"`
	StoreLink    string       `json:"store_link" validate:"required,url"`
	Price        types.Amount `json:"price" validate:"min=0"`
	IsUpdate     bool         `json:"is_update"`
}

func (r createSellOfferRequest) toInput() selloffers.CreateSellOfferInput {
	return selloffers.CreateSellOfferInput{
		SellOfferID:  r.SellOfferID,
		BuyOfferID:   r.BuyOfferID,
		AgentID:      r.AgentID,
		AgentAddress: r.AgentAddress,
		StoreLink:    r.StoreLink,
		Price:        r.Price.U64(),
		IsUpdate:     r.IsUpdate,
	}
}

type updateSellOfferRequest struct {
	StoreLink *string       `json:"store_link,omitempty" validate:"omitempty,url"`
	Price     *types.Amount `json:"price,omitempty" validate:"omitempty,min=0"`
	IsUpdate  *bool         `json:"is_update,omitempty"`
}

func (r updateSellOfferRequest) toInput() selloffers.UpdateSellOfferInput {
	return selloffers.UpdateSellOfferInput{
		StoreLink: r.StoreLink,
		Price:     u64Ptr(r.Price),
		IsUpdate:  r.IsUpdate,
	}
}

// SellOfferCreate mirrors an agent's on-chain sell offer. The parent buy
// offer must already be mirrored.
func SellOfferCreate(svc selloffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createSellOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offer, err := svc.CreateSellOffer(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

// SellOfferList returns one page of sell offers, newest mirrored first.
func SellOfferList(svc selloffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListSellOffers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// SellOfferListByBuyOffer returns the sell offers competing on one buy offer.
func SellOfferListByBuyOffer(svc selloffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListSellOffersByBuyOffer(r.Context(), chi.URLParam(r, "id"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// SellOfferListByAgent returns an agent's sell offers.
func SellOfferListByAgent(svc selloffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListSellOffersByAgent(r.Context(), chi.URLParam(r, "id"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// SellOfferGet fetches a sell offer by row id.
func SellOfferGet(svc selloffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.GetSellOffer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// SellOfferGetByBlockchainID fetches a sell offer by the on-chain object id.
func SellOfferGetByBlockchainID(svc selloffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offer, err := svc.GetSellOfferByBlockchainID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// SellOfferUpdate applies a partial patch to a mirrored sell offer.
func SellOfferUpdate(svc selloffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSellOfferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offer, err := svc.UpdateSellOffer(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

// SellOfferDelete removes a mirrored sell offer, echoing the deleted row.
func SellOfferDelete(svc selloffers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.DeleteSellOffer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

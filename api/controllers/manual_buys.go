package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priceless-app/priceless-backend/api/responses"
	"github.com/priceless-app/priceless-backend/api/validators"
	"github.com/priceless-app/priceless-backend/internal/manualbuys"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

type createManualBuyRequest struct {
	BuyOfferID   string       `json:"buy_offer_id" validate:"required"`
	Buyer        string       `json:"buyer" validate:"required,len=66"`
	AgentID      string       `json:"agent_id" validate:"required"`
	SellOfferID  string       `json:"sell_offer_id" validate:"required"`
	StoreLink    string       `json:"store_link" validate:"required,url"`
	ProductPrice types.Amount `json:"product_price" validate:"min=0"`
	AgentFee     types.Amount `json:"agent_fee" validate:"min=0"`
	TotalPaid    types.Amount `json:"total_paid" validate:"min=0"`
}

func (r createManualBuyRequest) toInput() manualbuys.CreateManualBuyInput {
	return manualbuys.CreateManualBuyInput{
		BuyOfferID:   r.BuyOfferID,
		Buyer:        r.Buyer,
		AgentID:      r.AgentID,
		SellOfferID:  r.SellOfferID,
		StoreLink:    r.StoreLink,
		ProductPrice: r.ProductPrice.U64(),
		AgentFee:     r.AgentFee.U64(),
		TotalPaid:    r.TotalPaid.U64(),
	}
}

// ManualBuyCreate mirrors a settled manual purchase. Manual buys are
// immutable once written; there is no update handler.
func ManualBuyCreate(svc manualbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createManualBuyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		buy, err := svc.CreateManualBuy(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, buy)
	}
}

// ManualBuyList returns one page of manual buys, newest mirrored first.
func ManualBuyList(svc manualbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListManualBuys(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// ManualBuyListByBuyer returns a wallet's purchase history.
func ManualBuyListByBuyer(svc manualbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListManualBuysByBuyer(r.Context(), chi.URLParam(r, "address"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// ManualBuyListByAgent returns the manual buys fulfilled by one agent.
func ManualBuyListByAgent(svc manualbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListManualBuysByAgent(r.Context(), chi.URLParam(r, "id"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// ManualBuyListByBuyOffer returns the manual buys settled against one buy offer.
func ManualBuyListByBuyOffer(svc manualbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListManualBuysByBuyOffer(r.Context(), chi.URLParam(r, "id"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// ManualBuyGet fetches a manual buy by row id.
func ManualBuyGet(svc manualbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buy, err := svc.GetManualBuy(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buy)
	}
}

// ManualBuyDelete removes a mis-mirrored manual buy, echoing the deleted row.
func ManualBuyDelete(svc manualbuys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buy, err := svc.DeleteManualBuy(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buy)
	}
}

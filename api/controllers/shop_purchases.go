package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priceless-app/priceless-backend/api/responses"
	"github.com/priceless-app/priceless-backend/api/validators"
	"github.com/priceless-app/priceless-backend/internal/shoppurchases"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

type createShopPurchaseRequest struct {
	AgentID      string       `json:"agent_id" validate:"required"`
	SellOfferID  string       `json:"sell_offer_id" validate:"required"`
	StoreLink    string       `json:"store_link" validate:"required,url"`
	ProductPrice types.Amount `json:"product_price" validate:"min=0"`
	AgentFee     types.Amount `json:"agent_fee" validate:"min=0"`
	PlatformFee  types.Amount `json:"platform_fee" validate:"min=0"`
}

func (r createShopPurchaseRequest) toInput() shoppurchases.CreateShopPurchaseInput {
	return shoppurchases.CreateShopPurchaseInput{
		AgentID:      r.AgentID,
		SellOfferID:  r.SellOfferID,
		StoreLink:    r.StoreLink,
		ProductPrice: r.ProductPrice.U64(),
		AgentFee:     r.AgentFee.U64(),
		PlatformFee:  r.PlatformFee.U64(),
	}
}

// ShopPurchaseCreate mirrors a settled shop purchase. Shop purchases are
// immutable once written; there is no update handler.
func ShopPurchaseCreate(svc shoppurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createShopPurchaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchase, err := svc.CreateShopPurchase(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}

// ShopPurchaseList returns one page of shop purchases, newest mirrored first.
func ShopPurchaseList(svc shoppurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListShopPurchases(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// ShopPurchaseListByAgent returns an agent's shop purchase history.
func ShopPurchaseListByAgent(svc shoppurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListShopPurchasesByAgent(r.Context(), chi.URLParam(r, "id"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// ShopPurchaseListBySellOffer returns the purchases settled against one
// sell offer.
func ShopPurchaseListBySellOffer(svc shoppurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListShopPurchasesBySellOffer(r.Context(), chi.URLParam(r, "id"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// ShopPurchaseGet fetches a shop purchase by row id.
func ShopPurchaseGet(svc shoppurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchase, err := svc.GetShopPurchase(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchase)
	}
}

// ShopPurchaseDelete removes a mis-mirrored shop purchase, echoing the
// deleted row.
func ShopPurchaseDelete(svc shoppurchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchase, err := svc.DeleteShopPurchase(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchase)
	}
}

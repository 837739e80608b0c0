package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func TestClientGetUserByAddress(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get_user", r.URL.Path)
		assert.Equal(t, "0xabc", r.URL.Query().Get("address"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"id":                 1,
				"user_id":           "0xuser001",
				"user_owner_address": "0xabc",
				"subscription_fee":   "5000000",
				"active":             true,
			},
			"timestamp": "2026-01-01T00:00:00Z",
		})
	}))

	user, err := client.GetUserByAddress(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "0xuser001", user.UserID)
	assert.Equal(t, types.U64(5_000_000), user.SubscriptionFee)
}

func TestClientListBuyOffers_pagination(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 6, "buy_offer_id": "0xoffer006", "product": "camera", "price": "150000"},
			},
			"pagination": map[string]any{"total": 6, "page": 2, "limit": 5, "pages": 2},
			"timestamp":  "2026-01-01T00:00:00Z",
		})
	}))

	offers, meta, err := client.ListBuyOffers(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "0xoffer006", offers[0].BuyOfferID)
	require.NotNil(t, meta)
	assert.Equal(t, 6, meta.Total)
	assert.Equal(t, 2, meta.Pages)
}

func TestClientCreateSellOffer_sendsAmountsAsStrings(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// 64-bit amounts travel as decimal strings.
		assert.Equal(t, "95000", body["price"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"data":      map[string]any{"id": 1, "sell_offer_id": "0xsell001", "price": "95000"},
			"timestamp": "2026-01-01T00:00:00Z",
		})
	}))

	offer, err := client.CreateSellOffer(context.Background(), CreateSellOfferRequest{
		SellOfferID: "0xsell001",
		BuyOfferID:  "0xoffer001",
		AgentID:     "agent-1",
		StoreLink:   "https://shop.example/p/1",
		Price:       types.U64(95_000),
	})
	require.NoError(t, err)
	assert.Equal(t, types.U64(95_000), offer.Price)
}

func TestClientErrorMapping(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error":      "buy offer not found",
			"code":       "NOT_FOUND",
			"statusCode": 404,
		})
	}))

	_, err := client.GetBuyOfferByBlockchainID(context.Background(), "0xmissing")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestClientErrorMapping_malformedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream blew up"))
	}))

	_, err := client.GetBuyOffer(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

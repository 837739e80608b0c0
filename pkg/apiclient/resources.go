package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/priceless-app/priceless-backend/pkg/db/models"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// CreateUserRequest mirrors the POST /api/users payload.
type CreateUserRequest struct {
	UserID               string    `json:"user_id"`
	UserAddress          string    `json:"user_address"`
	UserOwnerAddress     string    `json:"user_owner_address"`
	SubscriptionFee      types.U64 `json:"subscription_fee"`
	SubscriptionDeadline types.U64 `json:"subscription_deadline"`
	RegisteredAt         types.U64 `json:"registered_at"`
	Active               bool      `json:"active"`
}

// CreateBuyOfferRequest mirrors the POST /api/buy-offers payload.
type CreateBuyOfferRequest struct {
	BuyOfferID           string    `json:"buy_offer_id"`
	Owner                string    `json:"owner"`
	Product              string    `json:"product"`
	Price                types.U64 `json:"price"`
	OfferTypeIsTimeBased bool      `json:"offer_type_is_time_based"`
	Deadline             types.U64 `json:"deadline"`
	CreatedAt            types.U64 `json:"created_at"`
}

// UpdateBuyOfferRequest carries a partial patch; nil fields are omitted.
type UpdateBuyOfferRequest struct {
	Product              *string    `json:"product,omitempty"`
	Price                *types.U64 `json:"price,omitempty"`
	OfferTypeIsTimeBased *bool      `json:"offer_type_is_time_based,omitempty"`
	Deadline             *types.U64 `json:"deadline,omitempty"`
}

// CreateSellOfferRequest mirrors the POST /api/sell-offers payload.
type CreateSellOfferRequest struct {
	SellOfferID  string    `json:"sell_offer_id"`
	BuyOfferID   string    `json:"buy_offer_id"`
	AgentID      string    `json:"agent_id"`
	AgentAddress string    `json:"agent_address"`
	StoreLink    string    `json:"store_link"`
	Price        types.U64 `json:"price"`
	IsUpdate     bool      `json:"is_update"`
}

// UpdateSellOfferRequest carries a partial patch; nil fields are omitted.
type UpdateSellOfferRequest struct {
	StoreLink *string    `json:"store_link,omitempty"`
	Price     *types.U64 `json:"price,omitempty"`
	IsUpdate  *bool      `json:"is_update,omitempty"`
}

// CreateManualBuyRequest mirrors the POST /api/manual-buys payload.
type CreateManualBuyRequest struct {
	BuyOfferID   string    `json:"buy_offer_id"`
	Buyer        string    `json:"buyer"`
	AgentID      string    `json:"agent_id"`
	SellOfferID  string    `json:"sell_offer_id"`
	StoreLink    string    `json:"store_link"`
	ProductPrice types.U64 `json:"product_price"`
	AgentFee     types.U64 `json:"agent_fee"`
	TotalPaid    types.U64 `json:"total_paid"`
}

// CreateShopPurchaseRequest mirrors the POST /api/shop-purchases payload.
type CreateShopPurchaseRequest struct {
	AgentID      string    `json:"agent_id"`
	SellOfferID  string    `json:"sell_offer_id"`
	StoreLink    string    `json:"store_link"`
	ProductPrice types.U64 `json:"product_price"`
	AgentFee     types.U64 `json:"agent_fee"`
	PlatformFee  types.U64 `json:"platform_fee"`
}

// GetUserByAddress fetches the mirrored user for a wallet address.
func (c *Client) GetUserByAddress(ctx context.Context, address string) (*models.User, error) {
	q := url.Values{}
	q.Set("address", address)

	var user models.User
	if _, err := c.do(ctx, http.MethodGet, "/api/get_user", q, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser mirrors a freshly registered user.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	var user models.User
	if _, err := c.do(ctx, http.MethodPost, "/api/users", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListBuyOffers fetches one page of mirrored buy offers.
func (c *Client) ListBuyOffers(ctx context.Context, page, limit int) ([]models.BuyOffer, *types.PaginationMeta, error) {
	var offers []models.BuyOffer
	meta, err := c.do(ctx, http.MethodGet, "/api/buy-offers", listQuery(page, limit), nil, &offers)
	if err != nil {
		return nil, nil, err
	}
	return offers, meta, nil
}

// ListBuyOffersByOwner fetches the offers created by one wallet.
func (c *Client) ListBuyOffersByOwner(ctx context.Context, owner string, page, limit int) ([]models.BuyOffer, *types.PaginationMeta, error) {
	var offers []models.BuyOffer
	meta, err := c.do(ctx, http.MethodGet, "/api/buy-offers/owner/"+url.PathEscape(owner), listQuery(page, limit), nil, &offers)
	if err != nil {
		return nil, nil, err
	}
	return offers, meta, nil
}

// ListActiveBuyOffers fetches time-based offers whose deadline is still ahead.
func (c *Client) ListActiveBuyOffers(ctx context.Context, page, limit int) ([]models.BuyOffer, *types.PaginationMeta, error) {
	var offers []models.BuyOffer
	meta, err := c.do(ctx, http.MethodGet, "/api/buy-offers/active/deadline", listQuery(page, limit), nil, &offers)
	if err != nil {
		return nil, nil, err
	}
	return offers, meta, nil
}

// GetBuyOffer fetches a buy offer by its row id.
func (c *Client) GetBuyOffer(ctx context.Context, id uint) (*models.BuyOffer, error) {
	var offer models.BuyOffer
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/buy-offers/%d", id), nil, nil, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// GetBuyOfferByBlockchainID fetches a buy offer by its on-chain object id.
func (c *Client) GetBuyOfferByBlockchainID(ctx context.Context, buyOfferID string) (*models.BuyOffer, error) {
	var offer models.BuyOffer
	if _, err := c.do(ctx, http.MethodGet, "/api/buy-offers/blockchain/"+url.PathEscape(buyOfferID), nil, nil, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// CreateBuyOffer mirrors a buy offer created on chain.
func (c *Client) CreateBuyOffer(ctx context.Context, req CreateBuyOfferRequest) (*models.BuyOffer, error) {
	var offer models.BuyOffer
	if _, err := c.do(ctx, http.MethodPost, "/api/buy-offers", nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// UpdateBuyOffer applies a partial patch to a mirrored buy offer.
func (c *Client) UpdateBuyOffer(ctx context.Context, id uint, req UpdateBuyOfferRequest) (*models.BuyOffer, error) {
	var offer models.BuyOffer
	if _, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/buy-offers/%d", id), nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// DeleteBuyOffer removes a mirrored buy offer, returning the deleted row.
func (c *Client) DeleteBuyOffer(ctx context.Context, id uint) (*models.BuyOffer, error) {
	var offer models.BuyOffer
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/buy-offers/%d", id), nil, nil, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListSellOffersByBuyOffer fetches the sell offers answering one buy offer.
func (c *Client) ListSellOffersByBuyOffer(ctx context.Context, buyOfferID string, page, limit int) ([]models.SellOffer, *types.PaginationMeta, error) {
	var offers []models.SellOffer
	meta, err := c.do(ctx, http.MethodGet, "/api/sell-offers/buy-offer/"+url.PathEscape(buyOfferID), listQuery(page, limit), nil, &offers)
	if err != nil {
		return nil, nil, err
	}
	return offers, meta, nil
}

// CreateSellOffer mirrors a sell offer created on chain.
func (c *Client) CreateSellOffer(ctx context.Context, req CreateSellOfferRequest) (*models.SellOffer, error) {
	var offer models.SellOffer
	if _, err := c.do(ctx, http.MethodPost, "/api/sell-offers", nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// UpdateSellOffer applies a partial patch to a mirrored sell offer.
func (c *Client) UpdateSellOffer(ctx context.Context, id uint, req UpdateSellOfferRequest) (*models.SellOffer, error) {
	var offer models.SellOffer
	if _, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/sell-offers/%d", id), nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// CreateManualBuy mirrors a direct purchase executed on chain.
func (c *Client) CreateManualBuy(ctx context.Context, req CreateManualBuyRequest) (*models.ManualBuy, error) {
	var buy models.ManualBuy
	if _, err := c.do(ctx, http.MethodPost, "/api/manual-buys", nil, req, &buy); err != nil {
		return nil, err
	}
	return &buy, nil
}

// ListManualBuysByBuyer fetches the purchases made by one wallet.
func (c *Client) ListManualBuysByBuyer(ctx context.Context, buyer string, page, limit int) ([]models.ManualBuy, *types.PaginationMeta, error) {
	var buys []models.ManualBuy
	meta, err := c.do(ctx, http.MethodGet, "/api/manual-buys/buyer/"+url.PathEscape(buyer), listQuery(page, limit), nil, &buys)
	if err != nil {
		return nil, nil, err
	}
	return buys, meta, nil
}

// CreateShopPurchase mirrors an automated shop purchase executed on chain.
func (c *Client) CreateShopPurchase(ctx context.Context, req CreateShopPurchaseRequest) (*models.ShopPurchase, error) {
	var purchase models.ShopPurchase
	if _, err := c.do(ctx, http.MethodPost, "/api/shop-purchases", nil, req, &purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

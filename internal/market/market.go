package market

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/priceless-app/priceless-backend/pkg/db/models"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Store is the slice of the mirror API the matching engine reads from.
type Store interface {
	ListBuyOffers(ctx context.Context, page, limit int) ([]models.BuyOffer, *types.PaginationMeta, error)
	ListSellOffersByBuyOffer(ctx context.Context, buyOfferID string, page, limit int) ([]models.SellOffer, *types.PaginationMeta, error)
}

// Product identifies a catalog entry. On-chain buy offers reference products
// by free-text name, so matching bridges both the id and the display name.
type Product struct {
	ID   string
	Name string
}

// MatchResult pairs the buy offers applicable to a product with the sell
// offers currently known for them. Slices are snapshots; mutating them does
// not touch engine state.
type MatchResult struct {
	BuyOffers  []models.BuyOffer
	SellOffers []models.SellOffer
	// DemoData is set when no store-backed sell offers were found and the
	// static demonstration set filled in.
	DemoData bool
}

// Market holds the offer state one client session works against: the
// current buy offer list plus a per-buy-offer sell offer cache. A single
// writer (the engine itself) mutates state; readers get copies.
type Market struct {
	store Store

	mu        sync.RWMutex
	buyOffers []models.BuyOffer
	cache     map[string][]models.SellOffer
	inflight  map[string]bool

	// onCacheFill, when set, runs after an async fetch lands in the cache.
	// The caller uses it to trigger a re-match.
	onCacheFill func(buyOfferID string)

	fetchTimeout time.Duration
	log          *logger.Logger
}

// Option configures a Market.
type Option func(*Market)

// WithCacheFillHook registers a callback invoked after each async sell
// offer fetch completes.
func WithCacheFillHook(fn func(buyOfferID string)) Option {
	return func(m *Market) { m.onCacheFill = fn }
}

// WithFetchTimeout bounds each background sell offer fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Market) { m.fetchTimeout = d }
}

// New builds a matching engine over the given store.
func New(store Store, log *logger.Logger, opts ...Option) *Market {
	m := &Market{
		store:        store,
		cache:        make(map[string][]models.SellOffer),
		inflight:     make(map[string]bool),
		fetchTimeout: 15 * time.Second,
		log:          log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Refresh reloads the buy offer list from the store.
func (m *Market) Refresh(ctx context.Context) error {
	offers, _, err := m.store.ListBuyOffers(ctx, 1, 100)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.buyOffers = offers
	m.mu.Unlock()
	return nil
}

// SetBuyOffers replaces the working buy offer list directly.
func (m *Market) SetBuyOffers(offers []models.BuyOffer) {
	m.mu.Lock()
	m.buyOffers = append([]models.BuyOffer(nil), offers...)
	m.mu.Unlock()
}

// Match returns the offers applicable to a product. Sell offers come from
// the per-buy-offer cache; each miss starts a background fetch, so an early
// call can legitimately return zero sell offers for an offer that has some.
// When nothing store-backed is known the static demo set fills in.
func (m *Market) Match(ctx context.Context, product Product) MatchResult {
	m.mu.RLock()
	applicable := make([]models.BuyOffer, 0)
	for _, offer := range m.buyOffers {
		if offerApplies(offer, product) {
			applicable = append(applicable, offer)
		}
	}

	sellOffers := make([]models.SellOffer, 0)
	misses := make([]string, 0)
	for _, offer := range applicable {
		cached, ok := m.cache[offer.BuyOfferID]
		if !ok {
			if !m.inflight[offer.BuyOfferID] {
				misses = append(misses, offer.BuyOfferID)
			}
			continue
		}
		sellOffers = append(sellOffers, cached...)
	}
	m.mu.RUnlock()

	if len(misses) > 0 {
		m.mu.Lock()
		for _, id := range misses {
			if !m.inflight[id] {
				m.inflight[id] = true
				go m.fetchSellOffers(id)
			}
		}
		m.mu.Unlock()
	}

	if len(sellOffers) == 0 {
		if demo := demoSellOffers(product.ID); len(demo) > 0 {
			return MatchResult{BuyOffers: applicable, SellOffers: demo, DemoData: true}
		}
	}
	return MatchResult{BuyOffers: applicable, SellOffers: sellOffers}
}

func offerApplies(offer models.BuyOffer, product Product) bool {
	return offer.Product == product.ID || strings.EqualFold(offer.Product, product.Name)
}

// fetchSellOffers runs detached from the match that triggered it; the
// result lands in the cache for the next match.
func (m *Market) fetchSellOffers(buyOfferID string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
	defer cancel()

	offers, _, err := m.store.ListSellOffersByBuyOffer(ctx, buyOfferID, 1, 100)

	m.mu.Lock()
	delete(m.inflight, buyOfferID)
	if err == nil {
		m.cache[buyOfferID] = offers
	}
	m.mu.Unlock()

	if err != nil {
		if m.log != nil {
			m.log.Error(m.log.WithField(ctx, "buy_offer_id", buyOfferID), "sell offer fetch failed", err)
		}
		return
	}
	if m.log != nil {
		fields := map[string]any{
			"buy_offer_id": buyOfferID,
			"sell_offers":  len(offers),
		}
		if best := BestSellOffer(offers); best != nil {
			fields["best_price"] = DisplayPrice(best.Price).String()
		}
		m.log.Info(m.log.WithFields(ctx, fields), "sell offers cached")
	}
	if m.onCacheFill != nil {
		m.onCacheFill(buyOfferID)
	}
}

// InvalidateSellOffers drops the cached sell offers for one buy offer, so
// the next match re-fetches.
func (m *Market) InvalidateSellOffers(buyOfferID string) {
	m.mu.Lock()
	delete(m.cache, buyOfferID)
	m.mu.Unlock()
}

// BestSellOffer picks the minimum-price sell offer. Ties keep the first
// encountered; nil when the set is empty.
func BestSellOffer(offers []models.SellOffer) *models.SellOffer {
	if len(offers) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(offers); i++ {
		if offers[i].Price < offers[best].Price {
			best = i
		}
	}
	return &offers[best]
}

// DisplayPrice converts a smallest-unit amount into its display value.
func DisplayPrice(amount types.U64) decimal.Decimal {
	return decimal.NewFromUint64(uint64(amount)).Div(decimal.NewFromInt(100))
}

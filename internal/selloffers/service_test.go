package selloffers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/priceless-app/priceless-backend/internal/buyoffers"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"github.com/priceless-app/priceless-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSellOffersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL UNIQUE,
  user_address TEXT NOT NULL,
  user_owner_address TEXT NOT NULL UNIQUE,
  subscription_fee INTEGER NOT NULL DEFAULT 0,
  subscription_deadline INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  registered_at INTEGER NOT NULL DEFAULT 0,
  mirrored_at DATETIME,
  updated_at DATETIME
);`
	buyOffers := `
CREATE TABLE IF NOT EXISTS buy_offers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  buy_offer_id TEXT NOT NULL UNIQUE,
  owner TEXT NOT NULL,
  product TEXT NOT NULL,
  price INTEGER NOT NULL DEFAULT 0,
  offer_type_is_time_based INTEGER NOT NULL DEFAULT 0,
  deadline INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL DEFAULT 0,
  mirrored_at DATETIME,
  updated_at DATETIME
);`
	sellOffers := `
CREATE TABLE IF NOT EXISTS sell_offers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sell_offer_id TEXT NOT NULL UNIQUE,
  buy_offer_id TEXT NOT NULL,
  agent_id TEXT NOT NULL,
  agent_address TEXT NOT NULL,
  store_link TEXT NOT NULL,
  price INTEGER NOT NULL DEFAULT 0,
  is_update INTEGER NOT NULL DEFAULT 0,
  mirrored_at DATETIME,
  updated_at DATETIME
);`
	manualBuys := `
CREATE TABLE IF NOT EXISTS manual_buys (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  buy_offer_id TEXT NOT NULL,
  buyer TEXT NOT NULL,
  agent_id TEXT NOT NULL,
  sell_offer_id TEXT NOT NULL,
  store_link TEXT NOT NULL,
  product_price INTEGER NOT NULL DEFAULT 0,
  agent_fee INTEGER NOT NULL DEFAULT 0,
  total_paid INTEGER NOT NULL DEFAULT 0,
  mirrored_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(buyOffers).Error)
	require.NoError(t, db.Exec(sellOffers).Error)
	require.NoError(t, db.Exec(manualBuys).Error)
	return db
}

func newSellOffersService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupSellOffersTestDB(t)
	svc, err := NewService(NewRepository(db), buyoffers.NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func testWallet(n int) string {
	return "0x" + fmt.Sprintf("%064d", n)
}

func seedBuyOffer(t *testing.T, db *gorm.DB, buyOfferID string) {
	t.Helper()

	require.NoError(t, db.Exec(
		`INSERT INTO buy_offers (buy_offer_id, owner, product, price, created_at) VALUES (?, ?, ?, ?, ?)`,
		buyOfferID, testWallet(1), "wireless headphones", 150_000, 1_690_000_000_000,
	).Error)
}

func sellOfferInput(n int, buyOfferID string) CreateSellOfferInput {
	return CreateSellOfferInput{
		SellOfferID:  fmt.Sprintf("0xsell%03d", n),
		BuyOfferID:   buyOfferID,
		AgentID:      fmt.Sprintf("agent-%d", n),
		AgentAddress: testWallet(100 + n),
		StoreLink:    fmt.Sprintf("https://shop.example/p/%d", n),
		Price:        types.U64(90_000 + uint64(n)*1000),
	}
}

func TestServiceCreateSellOffer(t *testing.T) {
	svc, db := newSellOffersService(t)
	ctx := context.Background()

	seedBuyOffer(t, db, "0xoffer001")

	created, err := svc.CreateSellOffer(ctx, sellOfferInput(1, "0xoffer001"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "0xsell001", created.SellOfferID)

	_, err = svc.CreateSellOffer(ctx, sellOfferInput(1, "0xoffer001"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestServiceCreateSellOffer_missingBuyOffer(t *testing.T) {
	svc, _ := newSellOffersService(t)
	ctx := context.Background()

	_, err := svc.CreateSellOffer(ctx, sellOfferInput(1, "0xmissing"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceGetSellOffer_includesBuyOffer(t *testing.T) {
	svc, db := newSellOffersService(t)
	ctx := context.Background()

	seedBuyOffer(t, db, "0xoffer001")
	created, err := svc.CreateSellOffer(ctx, sellOfferInput(1, "0xoffer001"))
	require.NoError(t, err)

	got, err := svc.GetSellOffer(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BuyOffer)
	assert.Equal(t, "0xoffer001", got.BuyOffer.BuyOfferID)

	byChain, err := svc.GetSellOfferByBlockchainID(ctx, "0xsell001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byChain.ID)
}

func TestServiceListSellOffersByBuyOffer(t *testing.T) {
	svc, db := newSellOffersService(t)
	ctx := context.Background()

	seedBuyOffer(t, db, "0xoffer001")
	seedBuyOffer(t, db, "0xoffer002")

	for n := 1; n <= 3; n++ {
		input := sellOfferInput(n, "0xoffer001")
		_, err := svc.CreateSellOffer(ctx, input)
		require.NoError(t, err)
		// Distinct mirrored_at timestamps keep the ordering assertion stable.
		require.NoError(t, db.Exec(
			`UPDATE sell_offers SET mirrored_at = ? WHERE sell_offer_id = ?`,
			time.Date(2026, 1, 1, 0, 0, n, 0, time.UTC), input.SellOfferID,
		).Error)
	}
	_, err := svc.CreateSellOffer(ctx, sellOfferInput(4, "0xoffer002"))
	require.NoError(t, err)

	rows, meta, err := svc.ListSellOffersByBuyOffer(ctx, "0xoffer001", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 3, meta.Total)
	// Most recently mirrored first.
	assert.Equal(t, "0xsell003", rows[0].SellOfferID)
}

func TestServiceListSellOffersByAgent(t *testing.T) {
	svc, db := newSellOffersService(t)
	ctx := context.Background()

	seedBuyOffer(t, db, "0xoffer001")

	first := sellOfferInput(1, "0xoffer001")
	first.AgentID = "agent-shared"
	_, err := svc.CreateSellOffer(ctx, first)
	require.NoError(t, err)

	second := sellOfferInput(2, "0xoffer001")
	second.AgentID = "agent-shared"
	_, err = svc.CreateSellOffer(ctx, second)
	require.NoError(t, err)

	_, err = svc.CreateSellOffer(ctx, sellOfferInput(3, "0xoffer001"))
	require.NoError(t, err)

	rows, meta, err := svc.ListSellOffersByAgent(ctx, "agent-shared", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, meta.Total)
}

func TestServiceUpdateSellOffer_partialPatch(t *testing.T) {
	svc, db := newSellOffersService(t)
	ctx := context.Background()

	seedBuyOffer(t, db, "0xoffer001")
	created, err := svc.CreateSellOffer(ctx, sellOfferInput(1, "0xoffer001"))
	require.NoError(t, err)

	price := types.U64(88_000)
	isUpdate := true
	updated, err := svc.UpdateSellOffer(ctx, created.ID, UpdateSellOfferInput{
		Price:    &price,
		IsUpdate: &isUpdate,
	})
	require.NoError(t, err)
	assert.Equal(t, price, updated.Price)
	assert.True(t, updated.IsUpdate)
	assert.Equal(t, created.StoreLink, updated.StoreLink)
}

func TestServiceDeleteSellOffer(t *testing.T) {
	svc, db := newSellOffersService(t)
	ctx := context.Background()

	seedBuyOffer(t, db, "0xoffer001")
	created, err := svc.CreateSellOffer(ctx, sellOfferInput(1, "0xoffer001"))
	require.NoError(t, err)

	deleted, err := svc.DeleteSellOffer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.SellOfferID, deleted.SellOfferID)

	_, err = svc.GetSellOffer(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

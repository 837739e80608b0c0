package shoppurchases

import (
	"context"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/pagination"
	"github.com/priceless-app/priceless-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupShopPurchasesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	shopPurchases := `
CREATE TABLE IF NOT EXISTS shop_purchases (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  agent_id TEXT NOT NULL,
  sell_offer_id TEXT NOT NULL,
  store_link TEXT NOT NULL,
  product_price INTEGER NOT NULL DEFAULT 0,
  agent_fee INTEGER NOT NULL DEFAULT 0,
  platform_fee INTEGER NOT NULL DEFAULT 0,
  mirrored_at DATETIME
);`
	require.NoError(t, db.Exec(shopPurchases).Error)
	return db
}

func newShopPurchasesService(t *testing.T) Service {
	t.Helper()

	svc, err := NewService(NewRepository(setupShopPurchasesTestDB(t)))
	require.NoError(t, err)
	return svc
}

func purchaseInput(n int) CreateShopPurchaseInput {
	return CreateShopPurchaseInput{
		AgentID:      fmt.Sprintf("agent-%d", n),
		SellOfferID:  fmt.Sprintf("0xsell%03d", n),
		StoreLink:    fmt.Sprintf("https://shop.example/p/%d", n),
		ProductPrice: types.U64(200_000),
		AgentFee:     types.U64(10_000),
		PlatformFee:  types.U64(2_000),
	}
}

func TestServiceCreateShopPurchase(t *testing.T) {
	svc := newShopPurchasesService(t)
	ctx := context.Background()

	created, err := svc.CreateShopPurchase(ctx, purchaseInput(1))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, types.U64(2_000), created.PlatformFee)
	assert.False(t, created.MirroredAt.IsZero())
}

func TestServiceGetShopPurchase_notFound(t *testing.T) {
	svc := newShopPurchasesService(t)

	_, err := svc.GetShopPurchase(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceListShopPurchases_scopes(t *testing.T) {
	svc := newShopPurchasesService(t)
	ctx := context.Background()

	for n := 1; n <= 3; n++ {
		_, err := svc.CreateShopPurchase(ctx, purchaseInput(n))
		require.NoError(t, err)
	}
	repeat := purchaseInput(4)
	repeat.AgentID = "agent-1"
	repeat.SellOfferID = "0xsell001"
	_, err := svc.CreateShopPurchase(ctx, repeat)
	require.NoError(t, err)

	byAgent, meta, err := svc.ListShopPurchasesByAgent(ctx, "agent-1", pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, byAgent, 2)
	assert.Equal(t, 2, meta.Total)

	bySellOffer, meta, err := svc.ListShopPurchasesBySellOffer(ctx, "0xsell002", pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, bySellOffer, 1)
	assert.Equal(t, 1, meta.Total)

	all, meta, err := svc.ListShopPurchases(ctx, pagination.Params{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 4, meta.Total)
	assert.Equal(t, 2, meta.Pages)
}

func TestServiceDeleteShopPurchase(t *testing.T) {
	svc := newShopPurchasesService(t)
	ctx := context.Background()

	created, err := svc.CreateShopPurchase(ctx, purchaseInput(1))
	require.NoError(t, err)

	deleted, err := svc.DeleteShopPurchase(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.GetShopPurchase(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

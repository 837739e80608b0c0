package users

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

func setupUsersTestDB(t *testing.T) *gorm.DB {
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
	require.NoError(t, db.Exec(manualBuys).Error)
	return db
}

func newUsersService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupUsersTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func testWallet(n int) string {
	return "0x" + fmt.Sprintf("%064d", n)
}

func createUserInput(n int) CreateUserInput {
	return CreateUserInput{
		UserID:               fmt.Sprintf("0xuser%03d", n),
		UserAddress:          testWallet(1000 + n),
		UserOwnerAddress:     testWallet(n),
		SubscriptionFee:      types.U64(5_000_000),
		SubscriptionDeadline: types.U64(1_700_000_000_000),
		RegisteredAt:         types.U64(1_690_000_000_000 + n),
		Active:               true,
	}
}

func TestServiceCreateUser(t *testing.T) {
	svc, _ := newUsersService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, createUserInput(1))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "0xuser001", created.UserID)
	assert.Equal(t, testWallet(1), created.UserOwnerAddress)
	assert.True(t, created.Active)
	assert.False(t, created.MirroredAt.IsZero())
}

func TestServiceCreateUser_duplicateWallet(t *testing.T) {
	svc, _ := newUsersService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, createUserInput(1))
	require.NoError(t, err)

	dup := createUserInput(2)
	dup.UserOwnerAddress = testWallet(1)
	_, err = svc.CreateUser(ctx, dup)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestServiceGetUserByAddress(t *testing.T) {
	svc, _ := newUsersService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, createUserInput(1))
	require.NoError(t, err)

	got, err := svc.GetUserByAddress(ctx, created.UserOwnerAddress)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetUserByAddress(ctx, testWallet(99))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceGetUser_includesRelations(t *testing.T) {
	svc, db := newUsersService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, createUserInput(1))
	require.NoError(t, err)

	require.NoError(t, db.Exec(
		`INSERT INTO buy_offers (buy_offer_id, owner, product, price) VALUES (?, ?, ?, ?)`,
		"0xoffer001", created.UserOwnerAddress, "mechanical keyboard", 120_000,
	).Error)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.BuyOffers, 1)
	assert.Equal(t, "0xoffer001", got.BuyOffers[0].BuyOfferID)
}

func TestServiceListUsers_paginationAndOrder(t *testing.T) {
	svc, _ := newUsersService(t)
	ctx := context.Background()

	for n := 1; n <= 5; n++ {
		_, err := svc.CreateUser(ctx, createUserInput(n))
		require.NoError(t, err)
	}

	rows, meta, err := svc.ListUsers(ctx, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 2, meta.Limit)
	assert.Equal(t, 3, meta.Pages)

	// Most recently registered first.
	assert.Equal(t, "0xuser005", rows[0].UserID)
	assert.Equal(t, "0xuser004", rows[1].UserID)

	rows, meta, err = svc.ListUsers(ctx, pagination.Params{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "0xuser001", rows[0].UserID)
	assert.Equal(t, 3, meta.Page)
}

func TestServiceUpdateUser_partialPatch(t *testing.T) {
	svc, _ := newUsersService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, createUserInput(1))
	require.NoError(t, err)

	inactive := false
	deadline := types.U64(1_800_000_000_000)
	updated, err := svc.UpdateUser(ctx, created.ID, UpdateUserInput{
		Active:               &inactive,
		SubscriptionDeadline: &deadline,
	})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, deadline, updated.SubscriptionDeadline)
	// Untouched fields survive the patch.
	assert.Equal(t, created.UserAddress, updated.UserAddress)
	assert.Equal(t, created.SubscriptionFee, updated.SubscriptionFee)

	_, err = svc.UpdateUser(ctx, created.ID+100, UpdateUserInput{Active: &inactive})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestServiceDeleteUser(t *testing.T) {
	svc, _ := newUsersService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, createUserInput(1))
	require.NoError(t, err)

	deleted, err := svc.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, deleted.UserID)

	_, err = svc.GetUser(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

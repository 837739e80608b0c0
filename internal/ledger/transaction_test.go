package ledger

import (
	"context"
	"testing"

	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCoinClient struct {
	Client
	coins []Coin
	err   error
}

func (f *fakeCoinClient) OwnedCoins(ctx context.Context, owner, coinType string) ([]Coin, error) {
	return f.coins, f.err
}

func TestFundExact_mergesThenSplits(t *testing.T) {
	client := &fakeCoinClient{coins: []Coin{
		{ObjectID: "coin-1", Balance: 400},
		{ObjectID: "coin-2", Balance: 300},
		{ObjectID: "coin-3", Balance: 500},
	}}

	b := NewBuilder("0xowner", 100)
	require.NoError(t, FundExact(context.Background(), client, b, "0xowner", "0x2::coin::COIN", 1000))

	tx := b.Build()
	require.Len(t, tx.Commands, 2)

	merge := tx.Commands[0]
	assert.Equal(t, CommandMergeCoins, merge.Kind)
	assert.Equal(t, "coin-1", merge.Primary)
	assert.Equal(t, []string{"coin-2", "coin-3"}, merge.Sources)

	split := tx.Commands[1]
	assert.Equal(t, CommandSplitCoins, split.Kind)
	assert.Equal(t, "coin-1", split.Primary)
	assert.Equal(t, []types.U64{1000}, split.Amounts)
}

func TestFundExact_singleCoinSkipsMerge(t *testing.T) {
	client := &fakeCoinClient{coins: []Coin{{ObjectID: "coin-1", Balance: 400}}}

	b := NewBuilder("0xowner", 100)
	require.NoError(t, FundExact(context.Background(), client, b, "0xowner", "0x2::coin::COIN", 250))

	tx := b.Build()
	require.Len(t, tx.Commands, 1)
	assert.Equal(t, CommandSplitCoins, tx.Commands[0].Kind)
}

func TestFundExact_insufficientBalance(t *testing.T) {
	client := &fakeCoinClient{coins: []Coin{
		{ObjectID: "coin-1", Balance: 100},
		{ObjectID: "coin-2", Balance: 200},
	}}

	b := NewBuilder("0xowner", 100)
	err := FundExact(context.Background(), client, b, "0xowner", "0x2::coin::COIN", 1000)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientFunds))
	// Failed funding leaves the builder untouched.
	assert.Empty(t, b.Build().Commands)
}

func TestFundExact_zeroAmountTouchesNoCoins(t *testing.T) {
	// An empty wallet must still fund a zero requirement.
	client := &fakeCoinClient{}

	b := NewBuilder("0xowner", 100)
	require.NoError(t, FundExact(context.Background(), client, b, "0xowner", "0x2::coin::COIN", 0))

	tx := b.Build()
	require.Len(t, tx.Commands, 1)
	zero := tx.Commands[0]
	assert.Equal(t, CommandMoveCall, zero.Kind)
	assert.Equal(t, "0x2::balance::zero", zero.Target)
	assert.Equal(t, []any{"0x2::coin::COIN"}, zero.Args)
}

func TestFundExact_zeroAmountIgnoresOwnedCoins(t *testing.T) {
	client := &fakeCoinClient{coins: []Coin{{ObjectID: "coin-1", Balance: 400}}}

	b := NewBuilder("0xowner", 100)
	require.NoError(t, FundExact(context.Background(), client, b, "0xowner", "0x2::coin::COIN", 0))

	tx := b.Build()
	require.Len(t, tx.Commands, 1)
	assert.Equal(t, CommandMoveCall, tx.Commands[0].Kind)
}

func TestFundExact_noCoins(t *testing.T) {
	client := &fakeCoinClient{}

	b := NewBuilder("0xowner", 100)
	err := FundExact(context.Background(), client, b, "0xowner", "0x2::coin::COIN", 10)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientFunds))
}

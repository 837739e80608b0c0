package ledger

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/priceless-app/priceless-backend/pkg/apiclient"
	"github.com/priceless-app/priceless-backend/pkg/config"
	"github.com/priceless-app/priceless-backend/pkg/db/models"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	mu       sync.Mutex
	coins    []Coin
	executed []*Transaction
	digest   string
	status   Status
	execErr  error
}

func (f *fakeLedger) OwnedCoins(ctx context.Context, owner, coinType string) ([]Coin, error) {
	return f.coins, nil
}

func (f *fakeLedger) OwnedObjects(ctx context.Context, owner, objectType string) ([]Object, error) {
	return nil, nil
}

func (f *fakeLedger) GetObject(ctx context.Context, id string) (*Object, error) {
	return nil, nil
}

func (f *fakeLedger) Execute(ctx context.Context, tx *Transaction) (*ExecuteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.execErr != nil {
		return nil, f.execErr
	}
	f.executed = append(f.executed, tx)
	return &ExecuteResult{Digest: f.digest, Status: f.status}, nil
}

func (f *fakeLedger) WaitForFinality(ctx context.Context, digest string) (Status, error) {
	return f.status, nil
}

func (f *fakeLedger) executedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.executed)
}

type fakeMirror struct {
	mu          sync.Mutex
	userAfter   int // polls before the user row appears
	userPolls   int
	user        *models.User
	offers      []models.BuyOffer
	manualBuys  []models.ManualBuy
	offerByID   map[string]*models.BuyOffer
	deleted     []uint
	patched     []uint
	patchResult *models.BuyOffer
}

func (f *fakeMirror) GetUserByAddress(ctx context.Context, address string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userPolls++
	if f.user == nil || f.userPolls <= f.userAfter {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return f.user, nil
}

func (f *fakeMirror) GetBuyOfferByBlockchainID(ctx context.Context, buyOfferID string) (*models.BuyOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offer, ok := f.offerByID[buyOfferID]; ok {
		return offer, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buy offer not found")
}

func (f *fakeMirror) ListBuyOffersByOwner(ctx context.Context, owner string, page, limit int) ([]models.BuyOffer, *types.PaginationMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offers, nil, nil
}

func (f *fakeMirror) ListManualBuysByBuyer(ctx context.Context, buyer string, page, limit int) ([]models.ManualBuy, *types.PaginationMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.manualBuys, nil, nil
}

func (f *fakeMirror) UpdateBuyOffer(ctx context.Context, id uint, req apiclient.UpdateBuyOfferRequest) (*models.BuyOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patched = append(f.patched, id)
	return f.patchResult, nil
}

func (f *fakeMirror) DeleteBuyOffer(ctx context.Context, id uint) (*models.BuyOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return &models.BuyOffer{ID: id}, nil
}

func testLedgerConfig() config.LedgerConfig {
	return config.LedgerConfig{
		MarketPackage:    "0xpkg::market",
		PlatformRegistry: "0xregistry",
		CoinPackage:      "0x2::coin::COIN",
		GasBudget:        100_000_000,
		AgentFeeBps:      500,
	}
}

func newTestOrchestrator(t *testing.T, ledger *fakeLedger, mirror *fakeMirror, onState func(State)) *Orchestrator {
	t.Helper()

	o, err := NewOrchestrator(ledger, mirror, testLedgerConfig(), nil, Options{
		ReconcileAttempts: 3,
		ReconcileBackoff:  time.Millisecond,
		OnStateChange:     onState,
	})
	require.NoError(t, err)
	return o
}

func TestRegisterUser_statesAndReconcile(t *testing.T) {
	ledger := &fakeLedger{
		coins:  []Coin{{ObjectID: "coin-1", Balance: 10_000_000}},
		digest: "0xdigest",
		status: StatusSuccess,
	}
	mirror := &fakeMirror{
		userAfter: 1,
		user:      &models.User{ID: 1, UserID: "0xuser001", UserOwnerAddress: "0xowner"},
	}

	var states []State
	o := newTestOrchestrator(t, ledger, mirror, func(s State) { states = append(states, s) })

	user, err := o.RegisterUser(context.Background(), "0xowner", types.U64(5_000_000))
	require.NoError(t, err)
	assert.Equal(t, "0xuser001", user.UserID)
	assert.Equal(t, []State{StateBuilding, StateAwaitingSignature, StateSubmitted, StateConfirmed}, states)
	// Indexer lag forced a second poll.
	assert.Equal(t, 2, mirror.userPolls)
}

func TestRegisterUser_existingWalletSkipsChain(t *testing.T) {
	ledger := &fakeLedger{}
	mirror := &fakeMirror{
		user: &models.User{ID: 7, UserID: "0xuser007", UserOwnerAddress: "0xowner"},
	}

	o := newTestOrchestrator(t, ledger, mirror, nil)

	user, err := o.RegisterUser(context.Background(), "0xowner", types.U64(5_000_000))
	require.NoError(t, err)
	assert.Equal(t, "0xuser007", user.UserID)
	assert.Zero(t, ledger.executedCount())
}

func TestRegisterUser_insufficientFundsNeverSubmits(t *testing.T) {
	ledger := &fakeLedger{coins: []Coin{{ObjectID: "coin-1", Balance: 100}}}
	mirror := &fakeMirror{}

	o := newTestOrchestrator(t, ledger, mirror, nil)

	_, err := o.RegisterUser(context.Background(), "0xowner", types.U64(5_000_000))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientFunds))
	assert.Equal(t, StateFailed, o.State())
	assert.Zero(t, ledger.executedCount())
}

func TestRegisterUser_reconcileTimeoutFallsBackOptimistically(t *testing.T) {
	ledger := &fakeLedger{
		coins:  []Coin{{ObjectID: "coin-1", Balance: 10_000_000}},
		digest: "0xdigest",
		status: StatusSuccess,
	}
	mirror := &fakeMirror{} // user never appears

	o := newTestOrchestrator(t, ledger, mirror, nil)

	user, err := o.RegisterUser(context.Background(), "0xowner", types.U64(5_000_000))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(user.UserID, "local-"))
	assert.Equal(t, "0xowner", user.UserOwnerAddress)
	assert.True(t, user.Active)
	// one pre-registration lookup plus three reconcile attempts
	assert.Equal(t, 4, mirror.userPolls)
}

func TestManualBuy_fundsFeeAdjustedDifference(t *testing.T) {
	ledger := &fakeLedger{
		coins:  []Coin{{ObjectID: "coin-1", Balance: 10_000}},
		digest: "0xdigest",
		status: StatusSuccess,
	}
	mirror := &fakeMirror{manualBuys: []models.ManualBuy{{ID: 1, SellOfferID: "0xsell001", Buyer: "0xbuyer"}}}

	o := newTestOrchestrator(t, ledger, mirror, nil)

	buy, err := o.ManualBuy(context.Background(), ManualBuyAction{
		Buyer:     "0xbuyer",
		BuyOffer:  &models.BuyOffer{BuyOfferID: "0xoffer001", Price: 5000},
		SellOffer: &models.SellOffer{SellOfferID: "0xsell001", Price: 6000},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), buy.ID)

	require.Equal(t, 1, ledger.executedCount())
	tx := ledger.executed[0]
	var split *Command
	for i := range tx.Commands {
		if tx.Commands[i].Kind == CommandSplitCoins {
			split = &tx.Commands[i]
		}
	}
	require.NotNil(t, split)
	assert.Equal(t, []types.U64{1300}, split.Amounts)
}

func TestManualBuy_zeroDifferenceStillPays(t *testing.T) {
	// Empty wallet: a zero difference must not ask the buyer for coins.
	ledger := &fakeLedger{
		digest: "0xdigest",
		status: StatusSuccess,
	}
	mirror := &fakeMirror{manualBuys: []models.ManualBuy{{ID: 1, SellOfferID: "0xsell001"}}}

	o := newTestOrchestrator(t, ledger, mirror, nil)

	_, err := o.ManualBuy(context.Background(), ManualBuyAction{
		Buyer:     "0xbuyer",
		BuyOffer:  &models.BuyOffer{BuyOfferID: "0xoffer001", Price: 10_000},
		SellOffer: &models.SellOffer{SellOfferID: "0xsell001", Price: 2000},
	})
	require.NoError(t, err)

	tx := ledger.executed[0]
	var zero *Command
	for i := range tx.Commands {
		if tx.Commands[i].Target == "0x2::balance::zero" {
			zero = &tx.Commands[i]
		}
	}
	// Explicit zero payment, not an omitted argument.
	require.NotNil(t, zero)
	assert.Equal(t, CommandMoveCall, zero.Kind)
	for _, cmd := range tx.Commands {
		assert.NotEqual(t, CommandSplitCoins, cmd.Kind)
		assert.NotEqual(t, CommandMergeCoins, cmd.Kind)
	}
}

func TestCancelBuyOffer_patchesMirrorWhenIndexerLags(t *testing.T) {
	ledger := &fakeLedger{digest: "0xdigest", status: StatusSuccess}
	offer := &models.BuyOffer{ID: 7, BuyOfferID: "0xoffer001", Owner: "0xowner"}
	mirror := &fakeMirror{offerByID: map[string]*models.BuyOffer{"0xoffer001": offer}}

	o := newTestOrchestrator(t, ledger, mirror, nil)

	require.NoError(t, o.CancelBuyOffer(context.Background(), offer))
	assert.Equal(t, []uint{7}, mirror.deleted)
}

func TestSubmit_failureStatusSurfacesLedgerError(t *testing.T) {
	ledger := &fakeLedger{
		coins:  []Coin{{ObjectID: "coin-1", Balance: 10_000_000}},
		digest: "0xdigest",
		status: StatusFailure,
	}
	mirror := &fakeMirror{}

	o := newTestOrchestrator(t, ledger, mirror, nil)

	_, err := o.RegisterUser(context.Background(), "0xowner", types.U64(100))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeLedgerTransaction))
	assert.Equal(t, StateFailed, o.State())
}

func TestModifyBuyOffer_patchesMirrorOnTimeout(t *testing.T) {
	ledger := &fakeLedger{
		coins:  []Coin{{ObjectID: "coin-1", Balance: 10_000}},
		digest: "0xdigest",
		status: StatusSuccess,
	}
	stale := &models.BuyOffer{ID: 3, BuyOfferID: "0xoffer001", Owner: "0xowner", Price: 5000}
	mirror := &fakeMirror{
		offerByID:   map[string]*models.BuyOffer{"0xoffer001": stale},
		patchResult: &models.BuyOffer{ID: 3, BuyOfferID: "0xoffer001", Price: 6000},
	}

	o := newTestOrchestrator(t, ledger, mirror, nil)

	updated, err := o.ModifyBuyOffer(context.Background(), stale, types.U64(6000))
	require.NoError(t, err)
	assert.Equal(t, types.U64(6000), updated.Price)
	assert.Equal(t, []uint{3}, mirror.patched)
}

package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/priceless-app/priceless-backend/pkg/apiclient"
	"github.com/priceless-app/priceless-backend/pkg/config"
	"github.com/priceless-app/priceless-backend/pkg/db/models"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// State is the orchestrator's position in one user action.
type State string

const (
	StateIdle              State = "idle"
	StateBuilding          State = "building"
	StateAwaitingSignature State = "awaiting-signature"
	StateSubmitted         State = "submitted"
	StateConfirmed         State = "confirmed"
	StateFailed            State = "failed"
)

// Mirror is the slice of the mirror API the orchestrator reconciles against.
type Mirror interface {
	GetUserByAddress(ctx context.Context, address string) (*models.User, error)
	GetBuyOfferByBlockchainID(ctx context.Context, buyOfferID string) (*models.BuyOffer, error)
	ListBuyOffersByOwner(ctx context.Context, owner string, page, limit int) ([]models.BuyOffer, *types.PaginationMeta, error)
	ListManualBuysByBuyer(ctx context.Context, buyer string, page, limit int) ([]models.ManualBuy, *types.PaginationMeta, error)
	UpdateBuyOffer(ctx context.Context, id uint, req apiclient.UpdateBuyOfferRequest) (*models.BuyOffer, error)
	DeleteBuyOffer(ctx context.Context, id uint) (*models.BuyOffer, error)
}

// Orchestrator drives one marketplace action at a time against the ledger:
// build, submit, await finality, then reconcile the mirror's view. Once
// submitted an action cannot be aborted, only awaited.
type Orchestrator struct {
	client Client
	mirror Mirror
	cfg    config.LedgerConfig
	log    *logger.Logger

	attempts int
	backoff  time.Duration

	mu            sync.Mutex
	state         State
	onStateChange func(State)
}

// Options tunes the reconciliation loop.
type Options struct {
	ReconcileAttempts int
	ReconcileBackoff  time.Duration
	OnStateChange     func(State)
}

// NewOrchestrator builds an orchestrator over the given ledger client and
// mirror API.
func NewOrchestrator(client Client, mirror Mirror, cfg config.LedgerConfig, log *logger.Logger, opts Options) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("ledger client required")
	}
	if mirror == nil {
		return nil, fmt.Errorf("mirror client required")
	}

	attempts := opts.ReconcileAttempts
	if attempts <= 0 {
		attempts = 5
	}
	backoff := opts.ReconcileBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}

	return &Orchestrator{
		client:        client,
		mirror:        mirror,
		cfg:           cfg,
		log:           log,
		attempts:      attempts,
		backoff:       backoff,
		state:         StateIdle,
		onStateChange: opts.OnStateChange,
	}, nil
}

// State returns the current action state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	hook := o.onStateChange
	o.mu.Unlock()
	if hook != nil {
		hook(s)
	}
}

// fail records the terminal state and maps the cause to the ledger error
// kind. The detailed cause is logged; callers get the mapped error only.
func (o *Orchestrator) fail(ctx context.Context, action string, err error) error {
	o.setState(StateFailed)
	if o.log != nil {
		o.log.Error(o.log.WithAction(ctx, action), "ledger action failed", err)
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeLedgerTransaction, err, "ledger: "+action)
}

// submit executes the built transaction and waits for finality.
func (o *Orchestrator) submit(ctx context.Context, tx *Transaction) error {
	o.setState(StateAwaitingSignature)
	result, err := o.client.Execute(ctx, tx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeLedgerTransaction, err, "ledger: execute")
	}
	if result.Digest == "" {
		return pkgerrors.New(pkgerrors.CodeLedgerTransaction, "ledger: missing confirmation digest")
	}

	o.setState(StateSubmitted)
	status, err := o.client.WaitForFinality(ctx, result.Digest)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeLedgerTransaction, err, "ledger: await finality")
	}
	if status != StatusSuccess {
		return pkgerrors.New(pkgerrors.CodeLedgerTransaction,
			fmt.Sprintf("ledger: transaction %s finalized with status %s", result.Digest, status))
	}

	o.setState(StateConfirmed)
	return nil
}

// reconcile polls the mirror until check reports done, backing off between
// attempts. The indexer lags the ledger, so the first reads often miss.
func (o *Orchestrator) reconcile(ctx context.Context, check func(ctx context.Context) (bool, error)) error {
	backoff := o.backoff
	for attempt := 1; attempt <= o.attempts; attempt++ {
		done, err := check(ctx)
		if err == nil && done {
			return nil
		}
		if err != nil && o.log != nil {
			o.log.Warn(ctx, fmt.Sprintf("reconcile attempt %d/%d: %v", attempt, o.attempts, err))
		}
		if attempt == o.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return pkgerrors.Wrap(pkgerrors.CodeReconciliationTimeout, ctx.Err(), "ledger: reconcile canceled")
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return pkgerrors.New(pkgerrors.CodeReconciliationTimeout, "ledger: mirror did not converge in time")
}

// tempID generates the local placeholder identifier used by optimistic
// fallbacks when the mirror has not caught up.
func tempID() string {
	return "local-" + uuid.NewString()
}

// RegisterUser funds the subscription fee and registers the wallet on
// chain, then waits for the mirrored user row to appear.
func (o *Orchestrator) RegisterUser(ctx context.Context, owner string, subscriptionFee types.U64) (*models.User, error) {
	// Already registered wallets skip the chain round trip entirely.
	if existing, err := o.mirror.GetUserByAddress(ctx, owner); err == nil {
		return existing, nil
	}

	o.setState(StateBuilding)

	b := NewBuilder(owner, types.U64(o.cfg.GasBudget))
	if err := FundExact(ctx, o.client, b, owner, o.cfg.CoinPackage, subscriptionFee); err != nil {
		return nil, o.fail(ctx, "register_user", err)
	}
	b.MoveCall(o.cfg.MarketPackage+"::register_user", o.cfg.PlatformRegistry)

	if err := o.submit(ctx, b.Build()); err != nil {
		return nil, o.fail(ctx, "register_user", err)
	}

	var user *models.User
	err := o.reconcile(ctx, func(ctx context.Context) (bool, error) {
		found, err := o.mirror.GetUserByAddress(ctx, owner)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return false, nil
			}
			return false, err
		}
		user = found
		return true, nil
	})
	if err != nil {
		// Optimistic placeholder; the indexer will supply the real row.
		return &models.User{
			UserID:           tempID(),
			UserOwnerAddress: owner,
			SubscriptionFee:  subscriptionFee,
			Active:           true,
		}, nil
	}
	return user, nil
}

// CreateBuyOfferAction is the payload for a create-buy-offer action.
type CreateBuyOfferAction struct {
	Owner       string
	Product     string
	Price       types.U64
	IsTimeBased bool
	Deadline    types.U64
}

// CreateBuyOffer escrows the offer price on chain and waits for the
// mirrored offer to appear in the owner's list.
func (o *Orchestrator) CreateBuyOffer(ctx context.Context, action CreateBuyOfferAction) (*models.BuyOffer, error) {
	o.setState(StateBuilding)

	b := NewBuilder(action.Owner, types.U64(o.cfg.GasBudget))
	if err := FundExact(ctx, o.client, b, action.Owner, o.cfg.CoinPackage, action.Price); err != nil {
		return nil, o.fail(ctx, "create_buy_offer", err)
	}
	b.MoveCall(o.cfg.MarketPackage+"::create_buy_offer",
		o.cfg.PlatformRegistry, action.Product, action.Price, action.IsTimeBased, action.Deadline)

	if err := o.submit(ctx, b.Build()); err != nil {
		return nil, o.fail(ctx, "create_buy_offer", err)
	}

	var offer *models.BuyOffer
	err := o.reconcile(ctx, func(ctx context.Context) (bool, error) {
		offers, _, err := o.mirror.ListBuyOffersByOwner(ctx, action.Owner, 1, 100)
		if err != nil {
			return false, err
		}
		for i := range offers {
			if offers[i].Product == action.Product && offers[i].Price == action.Price {
				offer = &offers[i]
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return &models.BuyOffer{
			BuyOfferID:           tempID(),
			Owner:                action.Owner,
			Product:              action.Product,
			Price:                action.Price,
			OfferTypeIsTimeBased: action.IsTimeBased,
			Deadline:             action.Deadline,
		}, nil
	}
	return offer, nil
}

// ManualBuyAction is the payload for accepting a specific sell offer.
type ManualBuyAction struct {
	Buyer     string
	BuyOffer  *models.BuyOffer
	SellOffer *models.SellOffer
}

// ManualBuy pays the fee-adjusted difference between the accepted sell
// offer and the escrowed buy offer. A zero difference still produces an
// explicit zero-value payment token.
func (o *Orchestrator) ManualBuy(ctx context.Context, action ManualBuyAction) (*models.ManualBuy, error) {
	o.setState(StateBuilding)

	difference := PriceDifference(action.BuyOffer.Price, action.SellOffer.Price, o.cfg.AgentFeeBps)

	b := NewBuilder(action.Buyer, types.U64(o.cfg.GasBudget))
	if err := FundExact(ctx, o.client, b, action.Buyer, o.cfg.CoinPackage, difference); err != nil {
		return nil, o.fail(ctx, "manual_buy", err)
	}
	b.MoveCall(o.cfg.MarketPackage+"::manual_buy",
		o.cfg.PlatformRegistry, action.BuyOffer.BuyOfferID, action.SellOffer.SellOfferID)

	if err := o.submit(ctx, b.Build()); err != nil {
		return nil, o.fail(ctx, "manual_buy", err)
	}

	var buy *models.ManualBuy
	err := o.reconcile(ctx, func(ctx context.Context) (bool, error) {
		buys, _, err := o.mirror.ListManualBuysByBuyer(ctx, action.Buyer, 1, 100)
		if err != nil {
			return false, err
		}
		for i := range buys {
			if buys[i].SellOfferID == action.SellOffer.SellOfferID {
				buy = &buys[i]
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return &models.ManualBuy{
			BuyOfferID:   action.BuyOffer.BuyOfferID,
			Buyer:        action.Buyer,
			AgentID:      action.SellOffer.AgentID,
			SellOfferID:  action.SellOffer.SellOfferID,
			StoreLink:    action.SellOffer.StoreLink,
			ProductPrice: action.SellOffer.Price,
			TotalPaid:    action.BuyOffer.Price + difference,
		}, nil
	}
	return buy, nil
}

// CancelBuyOffer withdraws an offer on chain, waits for the mirror to drop
// it, and patches the mirror directly when the indexer lags.
func (o *Orchestrator) CancelBuyOffer(ctx context.Context, offer *models.BuyOffer) error {
	o.setState(StateBuilding)

	b := NewBuilder(offer.Owner, types.U64(o.cfg.GasBudget))
	b.MoveCall(o.cfg.MarketPackage+"::cancel_buy_offer", o.cfg.PlatformRegistry, offer.BuyOfferID)

	if err := o.submit(ctx, b.Build()); err != nil {
		return o.fail(ctx, "cancel_buy_offer", err)
	}

	err := o.reconcile(ctx, func(ctx context.Context) (bool, error) {
		_, err := o.mirror.GetBuyOfferByBlockchainID(ctx, offer.BuyOfferID)
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return true, nil
		}
		return false, err
	})
	if err != nil {
		if _, derr := o.mirror.DeleteBuyOffer(ctx, offer.ID); derr != nil {
			return err
		}
	}
	return nil
}

// ModifyBuyOffer changes the offer price on chain and waits for the mirror
// to reflect it, patching the mirror directly when the indexer lags.
func (o *Orchestrator) ModifyBuyOffer(ctx context.Context, offer *models.BuyOffer, newPrice types.U64) (*models.BuyOffer, error) {
	o.setState(StateBuilding)

	b := NewBuilder(offer.Owner, types.U64(o.cfg.GasBudget))
	if newPrice > offer.Price {
		if err := FundExact(ctx, o.client, b, offer.Owner, o.cfg.CoinPackage, newPrice-offer.Price); err != nil {
			return nil, o.fail(ctx, "modify_buy_offer", err)
		}
	}
	b.MoveCall(o.cfg.MarketPackage+"::modify_buy_offer",
		o.cfg.PlatformRegistry, offer.BuyOfferID, newPrice)

	if err := o.submit(ctx, b.Build()); err != nil {
		return nil, o.fail(ctx, "modify_buy_offer", err)
	}

	var updated *models.BuyOffer
	err := o.reconcile(ctx, func(ctx context.Context) (bool, error) {
		found, err := o.mirror.GetBuyOfferByBlockchainID(ctx, offer.BuyOfferID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return false, nil
			}
			return false, err
		}
		if found.Price != newPrice {
			return false, nil
		}
		updated = found
		return true, nil
	})
	if err != nil {
		patched, perr := o.mirror.UpdateBuyOffer(ctx, offer.ID, apiclient.UpdateBuyOfferRequest{Price: &newPrice})
		if perr != nil {
			return nil, err
		}
		return patched, nil
	}
	return updated, nil
}

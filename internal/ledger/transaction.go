package ledger

import (
	"context"
	"fmt"

	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// CommandKind discriminates transaction commands.
type CommandKind string

const (
	CommandMergeCoins CommandKind = "merge_coins"
	CommandSplitCoins CommandKind = "split_coins"
	CommandMoveCall   CommandKind = "move_call"
)

// Command is one step of a composed ledger transaction.
type Command struct {
	Kind CommandKind

	// Merge: Primary absorbs Sources. Split: Primary yields Amounts.
	Primary string
	Sources []string
	Amounts []types.U64

	// MoveCall target and arguments.
	Target string
	Args   []any
}

// Transaction is a built, unsigned transaction handed to the ledger client.
type Transaction struct {
	Sender    string
	GasBudget types.U64
	Commands  []Command
}

// Builder accumulates commands for one transaction.
type Builder struct {
	tx Transaction
}

// NewBuilder starts a transaction for the given sender.
func NewBuilder(sender string, gasBudget types.U64) *Builder {
	return &Builder{tx: Transaction{Sender: sender, GasBudget: gasBudget}}
}

// MergeCoins folds source coins into the primary coin object.
func (b *Builder) MergeCoins(primary string, sources []string) *Builder {
	b.tx.Commands = append(b.tx.Commands, Command{
		Kind:    CommandMergeCoins,
		Primary: primary,
		Sources: sources,
	})
	return b
}

// SplitCoins carves exact amounts off the primary coin object.
func (b *Builder) SplitCoins(primary string, amounts ...types.U64) *Builder {
	b.tx.Commands = append(b.tx.Commands, Command{
		Kind:    CommandSplitCoins,
		Primary: primary,
		Amounts: amounts,
	})
	return b
}

// MoveCall appends a contract call.
func (b *Builder) MoveCall(target string, args ...any) *Builder {
	b.tx.Commands = append(b.tx.Commands, Command{
		Kind:   CommandMoveCall,
		Target: target,
		Args:   args,
	})
	return b
}

// ZeroPayment emits a zero-value balance of the asset. No owned coin
// objects are referenced, so it works for empty wallets.
func (b *Builder) ZeroPayment(coinType string) *Builder {
	return b.MoveCall("0x2::balance::zero", coinType)
}

// Build finalizes the transaction.
func (b *Builder) Build() *Transaction {
	tx := b.tx
	return &tx
}

// FundExact selects coins covering the required amount and appends the
// merge-then-split commands producing a single payment of exactly that
// amount. All owned coins of the asset are merged into one before the split;
// a multi-coin payment reference is never produced. A zero requirement
// leaves the wallet untouched: the downstream call still receives a real
// payment argument, but it is a zero balance rather than a split, so even
// an empty wallet can fund it.
func FundExact(ctx context.Context, client Client, b *Builder, owner, coinType string, required types.U64) error {
	if required == 0 {
		b.ZeroPayment(coinType)
		return nil
	}

	coins, err := client.OwnedCoins(ctx, owner, coinType)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeLedgerTransaction, err, "ledger: query owned coins")
	}
	if len(coins) == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientFunds,
			fmt.Sprintf("no %s coins owned by %s", coinType, owner))
	}

	var total types.U64
	for _, coin := range coins {
		total += coin.Balance
	}
	if total < required {
		return pkgerrors.New(pkgerrors.CodeInsufficientFunds,
			fmt.Sprintf("balance %s below required %s", total, required))
	}

	primary := coins[0].ObjectID
	if len(coins) > 1 {
		sources := make([]string, 0, len(coins)-1)
		for _, coin := range coins[1:] {
			sources = append(sources, coin.ObjectID)
		}
		b.MergeCoins(primary, sources)
	}
	b.SplitCoins(primary, required)
	return nil
}

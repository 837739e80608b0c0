package ledger

import (
	"context"

	"github.com/priceless-app/priceless-backend/pkg/types"
)

// Status is a finalized transaction outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Coin is one owned fungible-asset object.
type Coin struct {
	ObjectID string
	CoinType string
	Balance  types.U64
}

// Object is an owned or shared on-chain object snapshot.
type Object struct {
	ID     string
	Type   string
	Fields map[string]any
}

// ExecuteResult reports a submitted transaction.
type ExecuteResult struct {
	Digest string
	Status Status
}

// Client is the opaque ledger boundary the orchestrator drives. Signing is
// the client's concern; the orchestrator only supplies built transactions.
type Client interface {
	OwnedCoins(ctx context.Context, owner, coinType string) ([]Coin, error)
	OwnedObjects(ctx context.Context, owner, objectType string) ([]Object, error)
	GetObject(ctx context.Context, id string) (*Object, error)
	Execute(ctx context.Context, tx *Transaction) (*ExecuteResult, error)
	WaitForFinality(ctx context.Context, digest string) (Status, error)
}

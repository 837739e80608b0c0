package models

import (
	"time"

	"github.com/priceless-app/priceless-backend/pkg/types"
)

// User mirrors the on-chain registration object for one wallet owner.
// Chain-assigned values are never authored here; the row is a projection the
// indexer keeps converging toward the ledger.
type User struct {
	ID                   uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID               string      `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	UserAddress          string      `gorm:"column:user_address;not null" json:"user_address"`
	UserOwnerAddress     string      `gorm:"column:user_owner_address;size:66;not null;uniqueIndex" json:"user_owner_address"`
	SubscriptionFee      types.U64   `gorm:"column:subscription_fee;not null;default:0" json:"subscription_fee"`
	SubscriptionDeadline types.U64   `gorm:"column:subscription_deadline;not null;default:0" json:"subscription_deadline"`
	Active               bool        `gorm:"column:active;not null;default:true" json:"active"`
	RegisteredAt         types.U64   `gorm:"column:registered_at;not null;default:0" json:"registered_at"`
	BuyOffers            []BuyOffer  `gorm:"foreignKey:Owner;references:UserOwnerAddress" json:"buyOffers,omitempty"`
	ManualBuys           []ManualBuy `gorm:"foreignKey:Buyer;references:UserOwnerAddress" json:"manualBuys,omitempty"`
	MirroredAt           time.Time   `gorm:"column:mirrored_at;autoCreateTime" json:"mirrored_at"`
	UpdatedAt            time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

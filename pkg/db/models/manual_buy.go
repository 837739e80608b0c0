package models

import (
	"time"

	"github.com/priceless-app/priceless-backend/pkg/types"
)

// ManualBuy records a buyer accepting a specific sell offer directly,
// outside the automatic matching path. Rows are immutable after creation;
// delete exists only to reverse a mis-mirrored purchase.
type ManualBuy struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BuyOfferID   string    `gorm:"column:buy_offer_id;not null;index" json:"buy_offer_id"`
	Buyer        string    `gorm:"column:buyer;size:66;not null;index" json:"buyer"`
	AgentID      string    `gorm:"column:agent_id;not null;index" json:"agent_id"`
	SellOfferID  string    `gorm:"column:sell_offer_id;not null;index" json:"sell_offer_id"`
	StoreLink    string    `gorm:"column:store_link;not null" json:"store_link"`
	ProductPrice types.U64 `gorm:"column:product_price;not null;default:0" json:"product_price"`
	AgentFee     types.U64 `gorm:"column:agent_fee;not null;default:0" json:"agent_fee"`
	TotalPaid    types.U64 `gorm:"column:total_paid;not null;default:0" json:"total_paid"`
	MirroredAt   time.Time `gorm:"column:mirrored_at;autoCreateTime" json:"mirrored_at"`
}

func (ManualBuy) TableName() string { return "manual_buys" }

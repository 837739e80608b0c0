package models

import (
	"time"

	"github.com/priceless-app/priceless-backend/pkg/types"
)

// ShopPurchase records a completed automated purchase executed against the
// shop integration for a sell offer.
type ShopPurchase struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AgentID      string    `gorm:"column:agent_id;not null;index" json:"agent_id"`
	SellOfferID  string    `gorm:"column:sell_offer_id;not null;index" json:"sell_offer_id"`
	StoreLink    string    `gorm:"column:store_link;not null" json:"store_link"`
	ProductPrice types.U64 `gorm:"column:product_price;not null;default:0" json:"product_price"`
	AgentFee     types.U64 `gorm:"column:agent_fee;not null;default:0" json:"agent_fee"`
	PlatformFee  types.U64 `gorm:"column:platform_fee;not null;default:0" json:"platform_fee"`
	MirroredAt   time.Time `gorm:"column:mirrored_at;autoCreateTime" json:"mirrored_at"`
}

func (ShopPurchase) TableName() string { return "shop_purchases" }

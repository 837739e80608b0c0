package models

import (
	"time"

	"github.com/priceless-app/priceless-backend/pkg/types"
)

// SellOffer mirrors an agent's on-chain response to a buy offer. is_update
// marks a revision of a previously made offer rather than a new one.
type SellOffer struct {
	ID            uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SellOfferID   string         `gorm:"column:sell_offer_id;not null;uniqueIndex" json:"sell_offer_id"`
	BuyOfferID    string         `gorm:"column:buy_offer_id;not null;index" json:"buy_offer_id"`
	AgentID       string         `gorm:"column:agent_id;not null;index" json:"agent_id"`
	AgentAddress  string         `gorm:"column:agent_address;size:66;not null" json:"agent_address"`
	StoreLink     string         `gorm:"column:store_link;not null" json:"store_link"`
	Price         types.U64      `gorm:"column:price;not null;default:0" json:"price"`
	IsUpdate      bool           `gorm:"column:is_update;not null;default:false" json:"is_update"`
	BuyOffer      *BuyOffer      `gorm:"foreignKey:BuyOfferID;references:BuyOfferID" json:"buyOffer,omitempty"`
	ManualBuys    []ManualBuy    `gorm:"foreignKey:SellOfferID;references:SellOfferID" json:"manualBuys,omitempty"`
	ShopPurchases []ShopPurchase `gorm:"foreignKey:SellOfferID;references:SellOfferID" json:"shopPurchases,omitempty"`
	MirroredAt    time.Time      `gorm:"column:mirrored_at;autoCreateTime" json:"mirrored_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SellOffer) TableName() string { return "sell_offers" }

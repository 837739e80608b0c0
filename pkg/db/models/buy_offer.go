package models

import (
	"time"

	"github.com/priceless-app/priceless-backend/pkg/types"
)

// BuyOffer mirrors a user's on-chain intent to acquire a product. Price is
// held in smallest currency units. The time-based flag discriminates the two
// offer variants: when true the deadline is meaningful, otherwise the price
// acts as the target.
type BuyOffer struct {
	ID                   uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BuyOfferID           string      `gorm:"column:buy_offer_id;not null;uniqueIndex" json:"buy_offer_id"`
	Owner                string      `gorm:"column:owner;size:66;not null;index" json:"owner"`
	Product              string      `gorm:"column:product;not null" json:"product"`
	Price                types.U64   `gorm:"column:price;not null;default:0" json:"price"`
	OfferTypeIsTimeBased bool        `gorm:"column:offer_type_is_time_based;not null;default:false" json:"offer_type_is_time_based"`
	Deadline             types.U64   `gorm:"column:deadline;not null;default:0;index" json:"deadline"`
	CreatedAt            types.U64   `gorm:"column:created_at;not null;default:0" json:"created_at"`
	User                 *User       `gorm:"foreignKey:Owner;references:UserOwnerAddress" json:"user,omitempty"`
	SellOffers           []SellOffer `gorm:"foreignKey:BuyOfferID;references:BuyOfferID" json:"sellOffers,omitempty"`
	ManualBuys           []ManualBuy `gorm:"foreignKey:BuyOfferID;references:BuyOfferID" json:"manualBuys,omitempty"`
	MirroredAt           time.Time   `gorm:"column:mirrored_at;autoCreateTime" json:"mirrored_at"`
	UpdatedAt            time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BuyOffer) TableName() string { return "buy_offers" }

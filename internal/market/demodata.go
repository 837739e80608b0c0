package market

import (
	"github.com/priceless-app/priceless-backend/pkg/db/models"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// Static demonstration offers shown when no mirrored sell offers exist for
// a product yet. Keyed by catalog product id.
var demoOffers = map[string][]models.SellOffer{
	"1": {
		{SellOfferID: "demo-1-a", AgentID: "demo-agent-1", StoreLink: "https://demo.shop/keyboards/alpha", Price: types.U64(12_900)},
		{SellOfferID: "demo-1-b", AgentID: "demo-agent-2", StoreLink: "https://demo.shop/keyboards/beta", Price: types.U64(11_500)},
	},
	"2": {
		{SellOfferID: "demo-2-a", AgentID: "demo-agent-1", StoreLink: "https://demo.shop/headphones/alpha", Price: types.U64(24_900)},
	},
	"3": {
		{SellOfferID: "demo-3-a", AgentID: "demo-agent-3", StoreLink: "https://demo.shop/cameras/alpha", Price: types.U64(89_000)},
		{SellOfferID: "demo-3-b", AgentID: "demo-agent-2", StoreLink: "https://demo.shop/cameras/beta", Price: types.U64(92_500)},
	},
}

func demoSellOffers(productID string) []models.SellOffer {
	offers, ok := demoOffers[productID]
	if !ok {
		return nil
	}
	return append([]models.SellOffer(nil), offers...)
}

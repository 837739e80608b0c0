package models

import "github.com/priceless-app/priceless-backend/pkg/types"

// OfferTerms is the variant view over a buy offer's two mutually exclusive
// field groups. Exactly one variant is meaningful per offer; consumers
// switch on the concrete type instead of re-checking the stored flag.
type OfferTerms interface {
	isOfferTerms()
}

// TargetPriceTerms is a buy offer bounded by a maximum price.
type TargetPriceTerms struct {
	Price types.U64
}

// DeadlineTerms is a buy offer bounded by a fulfillment deadline.
type DeadlineTerms struct {
	Deadline types.U64
}

func (TargetPriceTerms) isOfferTerms() {}
func (DeadlineTerms) isOfferTerms()    {}

// Terms resolves the offer's discriminator into its variant form.
func (b *BuyOffer) Terms() OfferTerms {
	if b.OfferTypeIsTimeBased {
		return DeadlineTerms{Deadline: b.Deadline}
	}
	return TargetPriceTerms{Price: b.Price}
}

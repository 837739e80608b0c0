package ledger

import (
	"math"
	"math/bits"

	"github.com/priceless-app/priceless-backend/pkg/types"
)

// PriceDifference computes the top-up a buyer owes when accepting a sell
// offer priced above their buy offer, with the agent fee applied to the
// sell price first. Integer floor arithmetic throughout; never negative.
// The fee multiply runs over 128 bits, so sell prices near the uint64
// ceiling do not wrap; an adjusted price beyond the uint64 range saturates.
func PriceDifference(buyPrice, sellPrice types.U64, feeBps uint64) types.U64 {
	hi, lo := bits.Mul64(uint64(sellPrice), 10_000+feeBps)
	if hi >= 10_000 {
		return types.U64(math.MaxUint64 - uint64(buyPrice))
	}
	adjusted, _ := bits.Div64(hi, lo, 10_000)
	if adjusted <= uint64(buyPrice) {
		return 0
	}
	return types.U64(adjusted - uint64(buyPrice))
}

package ledger

import (
	"math"
	"testing"

	"github.com/priceless-app/priceless-backend/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestPriceDifference(t *testing.T) {
	cases := []struct {
		name     string
		buy      types.U64
		sell     types.U64
		feeBps   uint64
		expected types.U64
	}{
		{name: "fee adjusted difference", buy: 5000, sell: 6000, feeBps: 500, expected: 1300},
		{name: "sell below buy clamps to zero", buy: 10_000, sell: 5000, feeBps: 500, expected: 0},
		{name: "equal prices with fee", buy: 5000, sell: 5000, feeBps: 500, expected: 250},
		{name: "zero fee", buy: 5000, sell: 6000, feeBps: 0, expected: 1000},
		{name: "floor division", buy: 0, sell: 3, feeBps: 500, expected: 3},
		{
			name:     "large sell price keeps full precision",
			buy:      0,
			sell:     10_000_000_000_000_000,
			feeBps:   500,
			expected: 10_500_000_000_000_000,
		},
		{
			name:     "adjusted price beyond uint64 saturates",
			buy:      1000,
			sell:     types.U64(math.MaxUint64),
			feeBps:   500,
			expected: types.U64(math.MaxUint64 - 1000),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PriceDifference(tc.buy, tc.sell, tc.feeBps))
		})
	}
}

package networth

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		in      string
		want    Quantity
		wantErr bool
	}{
		{"12.5", Q(12.5), false},
		{" -200 ", Q(-200), false},
		{"1 000", Q(1000), false},
		{"1234.56", Q(1234.56), false},
		{"0,25", Quantity{}, true},
		{"1,000", Quantity{}, true},
		{"-2,500", Quantity{}, true},
		{"1,234.56", Quantity{}, true},
		{"1.234,56", Quantity{}, true},
		{"abc", Quantity{}, true},
		{"", Quantity{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseQuantity(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "ParseQuantity(%q) = %v, want %v", tc.in, got, tc.want)
		})
	}
}

func TestRatio(t *testing.T) {
	p, err := Ratio(decimal.NewFromInt(300), decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.True(t, p.Equal(P(0.6)))
	assert.Equal(t, "60.00%", p.String())
	assert.Equal(t, "+60.00%", p.SignedString())

	p, err = Ratio(decimal.NewFromInt(300), decimal.Zero)
	assert.True(t, errors.Is(err, ErrDivisionUndefined))
	assert.False(t, p.IsDefined())
	assert.Equal(t, "-", p.String())
	assert.Equal(t, "-", p.SignedString())
	assert.False(t, p.Equal(P(0)))
}

func TestMoney(t *testing.T) {
	assert.True(t, EUR(1000).Add(EUR(300)).Sub(EUR(100)).Equal(EUR(1200)))
	assert.True(t, EUR(22).Mul(Q(15)).Equal(EUR(330)))
	assert.True(t, EUR(-100).Abs().Equal(EUR(100)))
	assert.True(t, EUR(10.004).Round().Equal(EUR(10)))
	assert.True(t, Sum("EUR", EUR(1), EUR(2), EUR(3)).Equal(EUR(6)))
	assert.Equal(t, "-", EUR(0.001).SignedString())

	rate, err := EUR(300).Ratio(EUR(500))
	require.NoError(t, err)
	assert.True(t, rate.Equal(P(0.6)))

	assert.Panics(t, func() { EUR(1).Add(M(1, "USD")) })
}

func TestParseAssetClass(t *testing.T) {
	for in, want := range map[string]AssetClass{
		"Cryptocurrencies": Cryptocurrencies,
		"crypto":           Cryptocurrencies,
		" ETFs ":           ETFs,
		"etf":              ETFs,
	} {
		got, err := ParseAssetClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAssetClass("Stocks")
	assert.True(t, errors.Is(err, ErrConfiguration))
}

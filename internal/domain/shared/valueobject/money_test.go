package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(10.50), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(10.50)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.25)
	b := NewMoneyUSDFromFloat(5.75)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(16)))

	eur, err := NewMoney(decimal.NewFromInt(1), EUR)
	require.NoError(t, err)
	_, err = a.Add(eur)
	assert.Error(t, err)
}

func TestMoney_Mul(t *testing.T) {
	m := NewMoneyUSDFromFloat(19.99)
	result := m.Mul(decimal.NewFromInt(3))
	assert.True(t, result.Amount().Equal(decimal.NewFromFloat(59.97)))
}

func TestMoney_MinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		cents  int64
	}{
		{19.99, 1999},
		{0.01, 1},
		{100, 10000},
		{0.005, 1}, // rounds half away from zero
	}

	for _, tt := range tests {
		assert.Equal(t, tt.cents, NewMoneyUSDFromFloat(tt.amount).MinorUnits())
	}
}

func TestMoney_Round(t *testing.T) {
	m := NewMoneyUSDFromFloat(10.555)
	assert.True(t, m.Round(2).Amount().Equal(decimal.NewFromFloat(10.56)))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "10.50 USD", NewMoneyUSDFromFloat(10.5).String())
}

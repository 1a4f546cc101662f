package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/inf.v0"
)

func TestCQLDecimalBridge(t *testing.T) {
	// 1,5 kg à 50000 Rp : les valeurs typiques du domaine doivent passer
	// le pont sans perte.
	for _, s := range []string{"1.5", "0.25", "50000", "130000", "0", "-12.75"} {
		d, err := decimal.NewFromString(s)
		require.NoError(t, err)

		back := FromCQLDecimal(ToCQLDecimal(d))
		assert.True(t, d.Equal(back), "%s devient %s", s, back)
	}
}

func TestToCQLDecimalScale(t *testing.T) {
	d, _ := decimal.NewFromString("1.5")
	v := ToCQLDecimal(d)

	assert.Equal(t, inf.Scale(1), v.Scale())
	assert.Equal(t, "1.5", v.String())
}

func TestFromCQLDecimalNilIsZero(t *testing.T) {
	assert.True(t, FromCQLDecimal(nil).IsZero())
}

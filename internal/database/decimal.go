package database

import (
	"math/big"

	"github.com/shopspring/decimal"
	"gopkg.in/inf.v0"
)

// gocql marshalle le type CQL `decimal` vers *inf.Dec ; le domaine
// travaille en shopspring/decimal. Ces deux helpers font le pont.

// ToCQLDecimal convertit un decimal.Decimal en *inf.Dec pour écriture CQL.
func ToCQLDecimal(d decimal.Decimal) *inf.Dec {
	coeff := new(big.Int).Set(d.Coefficient())
	return inf.NewDecBig(coeff, inf.Scale(-d.Exponent()))
}

// FromCQLDecimal convertit un *inf.Dec lu en CQL vers decimal.Decimal.
func FromCQLDecimal(v *inf.Dec) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Set(v.UnscaledBig()), -int32(v.Scale()))
}

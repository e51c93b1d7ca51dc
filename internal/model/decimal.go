package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Decimal renders at the value's own scale instead of trimming trailing
// zeros, so the wire string matches what was validated: "2.500" stays
// "2.500" and the used-quantity default stays "0.0". Scan and Value come
// from the embedded decimal, keeping exact NUMERIC round-trips.
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

func (d Decimal) String() string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.Decimal.String()
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrValidation is the generic validation error wrapped by all services.
var ErrValidation = errors.New("validation error")

// DerivePrice computes the sale price of a stock item from its purchase
// cost and margin multiplier, rounded half-up to two decimal places.
// The same rule applies to medications, consumables and food products.
//
// The margin must be strictly positive; callers validate this before
// persisting an item, and the function rejects it again here so a bad
// margin can never produce a price.
func DerivePrice(purchaseCost, margin decimal.Decimal) (decimal.Decimal, error) {
	if purchaseCost.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: purchase cost cannot be negative", ErrValidation)
	}
	if margin.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: margin must be greater than 0", ErrValidation)
	}
	return purchaseCost.Mul(margin).Round(2), nil
}

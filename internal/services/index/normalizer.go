package index

import (
	"math"

	"github.com/ternarybob/sentindex/internal/models"
)

// Normalize validates and coerces a raw symbol->price mapping into a
// well-formed PriceSet. It rejects the whole set if any supplied value
// is non-positive or non-finite. The normalizer is config-agnostic:
// symbols the target index doesn't weight pass through untouched and
// are reconciled by the composer.
func Normalize(raw map[string]float64) (models.PriceSet, error) {
	prices := make(models.PriceSet, len(raw))
	for symbol, price := range raw {
		if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, &models.ValidationError{Reason: models.ReasonNonPositivePrice, Symbol: symbol}
		}
		prices[symbol] = price
	}
	return prices, nil
}

package models

import (
	"sort"
	"time"
)

// PriceSet is a set of asset prices observed at a single instant,
// keyed by symbol. Every value in a normalized PriceSet is positive
// and finite.
type PriceSet map[string]float64

// Symbols returns the symbols in the set in sorted order.
func (p PriceSet) Symbols() []string {
	symbols := make([]string, 0, len(p))
	for symbol := range p {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Clone returns an independent copy of the price set.
func (p PriceSet) Clone() PriceSet {
	if p == nil {
		return nil
	}
	clone := make(PriceSet, len(p))
	for symbol, price := range p {
		clone[symbol] = price
	}
	return clone
}

// PriceSnapshot is the most recent price set observed for an index,
// kept so the insights endpoint and the scheduler can pair an index
// name with the prices that back its latest value.
type PriceSnapshot struct {
	IndexName  string    `json:"index_name"`
	Prices     PriceSet  `json:"prices"`
	ObservedAt time.Time `json:"observed_at"`
}

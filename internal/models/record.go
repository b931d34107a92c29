package models

import (
	"fmt"
	"time"
)

// IndexValueRecord is the persisted row for a single computation:
// one row per (time, index name), with the provenance payload inline.
type IndexValueRecord struct {
	Time        time.Time        `json:"time" badgerhold:"index"`
	IndexName   string           `json:"index_name" badgerhold:"index"`
	Value       float64          `json:"index_value"`
	Method      Method           `json:"method"`
	Delta24hPct float64          `json:"delta_24h_pct"`
	Provenance  ProvenanceRecord `json:"payload"`
}

// Key returns the storage key, unique per (time, index name).
func (r *IndexValueRecord) Key() string {
	return fmt.Sprintf("%s|%020d", r.IndexName, r.Time.UnixNano())
}

package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidQuarter is returned when a quarter string cannot be parsed.
var ErrInvalidQuarter = errors.New("invalid quarter")

// Quarter identifies a fiscal quarter.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Quarters returns every fiscal quarter in order.
func Quarters() []Quarter {
	return []Quarter{Q1, Q2, Q3, Q4}
}

// ParseQuarter parses a quarter name case-insensitively.
func ParseQuarter(s string) (Quarter, error) {
	switch normalize(s) {
	case "q1":
		return Q1, nil
	case "q2":
		return Q2, nil
	case "q3":
		return Q3, nil
	case "q4":
		return Q4, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidQuarter, s)
}

// SalesColumns enumerates the columns available on every sales record.
// It is attached to each corpus document as grounding metadata.
const SalesColumns = "region, quarter, quota, profit, commission, revenue"

// SalesRecord is one row of the sales fact table. Each record belongs to
// exactly one region and quarter.
type SalesRecord struct {
	Region     Region  `json:"region"`
	Quarter    Quarter `json:"quarter"`
	Quota      float64 `json:"quota"`
	Profit     float64 `json:"profit"`
	Commission float64 `json:"commission"`
	Revenue    float64 `json:"revenue"`
}

// Metric returns the named metric value from the record.
func (r SalesRecord) Metric(name string) (float64, bool) {
	switch normalize(name) {
	case "quota":
		return r.Quota, true
	case "profit":
		return r.Profit, true
	case "commission":
		return r.Commission, true
	case "revenue":
		return r.Revenue, true
	}
	return 0, false
}

package statement

import (
	"cmp"
	"fmt"
	"slices"
)

// SortKey names a sortable column
type SortKey string

const (
	SortByDate      SortKey = FieldDate
	SortByRevenue   SortKey = FieldRevenue
	SortByNetIncome SortKey = FieldNetIncome
)

// SortKeys lists the sortable columns
var SortKeys = []SortKey{SortByDate, SortByRevenue, SortByNetIncome}

// Direction is a sort direction
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortConfig is the active sort column and direction
type SortConfig struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// ParseSortKey validates a sort key coming from a request
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// NextSort returns the config for a sort request on key.
// Repeating an ascending sort flips it to descending; anything else starts ascending.
func NextSort(current *SortConfig, key SortKey) SortConfig {
	if current != nil && current.Key == key && current.Direction == Ascending {
		return SortConfig{Key: key, Direction: Descending}
	}
	return SortConfig{Key: key, Direction: Ascending}
}

// Sort returns a stably sorted copy of records.
// Records missing the key compare equal to everything, so they keep their
// relative position with respect to their neighbours.
func Sort(records []Record, cfg SortConfig) []Record {
	out := Clone(records)
	if out == nil {
		out = []Record{}
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		c := compareBy(a, b, cfg.Key)
		if cfg.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

func compareBy(a, b Record, key SortKey) int {
	if key == SortByDate {
		ta, okA := a.Time()
		tb, okB := b.Time()
		if !okA || !okB {
			return 0
		}
		return ta.Compare(tb)
	}
	va, okA := a.Amount(string(key))
	vb, okB := b.Amount(string(key))
	if !okA || !okB {
		return 0
	}
	return cmp.Compare(va, vb)
}

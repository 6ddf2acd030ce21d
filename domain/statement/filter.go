package statement

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateRange holds the raw date inputs; an empty string is an absent bound
type DateRange struct {
	Start string `json:"start" form:"start"`
	End   string `json:"end" form:"end"`
}

// AmountRange holds the raw numeric inputs; an empty string is an absent bound
type AmountRange struct {
	Min string `json:"min" form:"min"`
	Max string `json:"max" form:"max"`
}

// Criteria is the set of range filters as entered by the user
type Criteria struct {
	Date      DateRange   `json:"dateRange"`
	Revenue   AmountRange `json:"revenueRange"`
	NetIncome AmountRange `json:"netIncomeRange"`
}

// IsEmpty reports whether no bound is set
func (c Criteria) IsEmpty() bool {
	return blank(c.Date.Start) && blank(c.Date.End) &&
		blank(c.Revenue.Min) && blank(c.Revenue.Max) &&
		blank(c.NetIncome.Min) && blank(c.NetIncome.Max)
}

// Filter is a validated Criteria ready to be matched against records
type Filter struct {
	from, to  *time.Time
	revenue   bounds
	netIncome bounds
}

type bounds struct {
	min, max *float64
}

func (b bounds) active() bool {
	return b.min != nil || b.max != nil
}

func (b bounds) contains(v float64) bool {
	if b.min != nil && v < *b.min {
		return false
	}
	if b.max != nil && v > *b.max {
		return false
	}
	return true
}

// Compile validates the criteria and returns the matching Filter.
// Validation stops at the first violation: dates, then revenue, then net income.
func (c Criteria) Compile() (Filter, error) {
	var f Filter

	from, err := parseDateBound(c.Date.Start, "Start date is not a valid date.")
	if err != nil {
		return Filter{}, err
	}
	to, err := parseDateBound(c.Date.End, "End date is not a valid date.")
	if err != nil {
		return Filter{}, err
	}
	if from != nil && to != nil && from.After(*to) {
		return Filter{}, newRangeError(FieldDate, "Start date cannot be later than end date.")
	}
	f.from, f.to = from, to

	if f.revenue, err = parseAmountBounds(c.Revenue, FieldRevenue, "Revenue"); err != nil {
		return Filter{}, err
	}
	if f.netIncome, err = parseAmountBounds(c.NetIncome, FieldNetIncome, "Net income"); err != nil {
		return Filter{}, err
	}

	return f, nil
}

// Match reports whether r satisfies every present predicate
func (f Filter) Match(r Record) bool {
	if f.from != nil || f.to != nil {
		t, ok := r.Time()
		if !ok {
			return false
		}
		if f.from != nil && t.Before(*f.from) {
			return false
		}
		if f.to != nil && t.After(*f.to) {
			return false
		}
	}
	if f.revenue.active() && !f.revenue.contains(amountOrZero(r.Revenue)) {
		return false
	}
	if f.netIncome.active() && !f.netIncome.contains(amountOrZero(r.NetIncome)) {
		return false
	}
	return true
}

// Apply returns the matching records in their original order.
// The result never aliases records.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func parseDateBound(raw, invalidMsg string) (*time.Time, error) {
	if blank(raw) {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil, newRangeError(FieldDate, invalidMsg)
	}
	return &t, nil
}

func parseAmountBounds(r AmountRange, field, label string) (bounds, error) {
	var b bounds
	for _, bound := range []struct {
		raw string
		dst **float64
	}{
		{r.Min, &b.min},
		{r.Max, &b.max},
	} {
		if blank(bound.raw) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(bound.raw), 64)
		if err != nil || math.IsNaN(v) {
			return bounds{}, newRangeError(field, label+" range must be numeric.")
		}
		if v < 0 {
			return bounds{}, newRangeError(field, label+" range cannot contain negative numbers.")
		}
		*bound.dst = &v
	}
	return b, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

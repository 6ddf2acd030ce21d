package statement

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the upstream API and the date inputs
const DateLayout = "2006-01-02"

// Record is one annual income-statement entry.
// Numeric fields are nil when the upstream value is absent or null.
type Record struct {
	Date            string   `json:"date"`
	Revenue         *float64 `json:"revenue"`
	NetIncome       *float64 `json:"netIncome"`
	GrossProfit     *float64 `json:"grossProfit"`
	EPS             *float64 `json:"eps"`
	OperatingIncome *float64 `json:"operatingIncome"`
}

// Field names as they appear in the upstream payload and workbook headers
const (
	FieldDate            = "date"
	FieldRevenue         = "revenue"
	FieldNetIncome       = "netIncome"
	FieldGrossProfit     = "grossProfit"
	FieldEPS             = "eps"
	FieldOperatingIncome = "operatingIncome"
)

// Fields lists the record fields in display order
var Fields = []string{
	FieldDate,
	FieldRevenue,
	FieldNetIncome,
	FieldGrossProfit,
	FieldEPS,
	FieldOperatingIncome,
}

// timestampLayouts are the date-time forms accepted in place of a plain date
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
}

// ParseDate parses a calendar date. Timestamps such as "2023-09-30 00:00:00"
// are accepted and truncated to their date part; any other suffix is rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if len(s) <= len(DateLayout) || (s[len(DateLayout)] != ' ' && s[len(DateLayout)] != 'T') {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			t, err := time.Parse(DateLayout, s[:len(DateLayout)])
			return t, err == nil
		}
	}
	return time.Time{}, false
}

// Time returns the record date, or false when it is missing or malformed
func (r Record) Time() (time.Time, bool) {
	return ParseDate(r.Date)
}

// Year returns the calendar year of the record date
func (r Record) Year() (int, bool) {
	t, ok := r.Time()
	if !ok {
		return 0, false
	}
	return t.Year(), true
}

// Amount returns a numeric field by name
func (r Record) Amount(field string) (float64, bool) {
	var v *float64
	switch field {
	case FieldRevenue:
		v = r.Revenue
	case FieldNetIncome:
		v = r.NetIncome
	case FieldGrossProfit:
		v = r.GrossProfit
	case FieldEPS:
		v = r.EPS
	case FieldOperatingIncome:
		v = r.OperatingIncome
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// amountOrZero is the value used by range predicates: missing compares as zero
func amountOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v, for building records in code and tests
func Float(v float64) *float64 {
	return &v
}

// Clone returns a copy of the slice. Records share their numeric pointers,
// which are never written after decoding.
func Clone(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

package statement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{Date: "2023-09-30", Revenue: Float(383285000000), NetIncome: Float(96995000000)},
		{Date: "2022-09-24", Revenue: Float(394328000000), NetIncome: Float(99803000000)},
		{Date: "2021-09-25", Revenue: Float(365817000000), NetIncome: Float(94680000000)},
		{Date: "2020-09-26", Revenue: Float(274515000000), NetIncome: Float(57411000000)},
		{Date: "2019-09-28"},
	}
}

func dates(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Date
	}
	return out
}

func TestCompileValidation(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		field    string
		message  string
	}{
		{
			name:     "start after end",
			criteria: Criteria{Date: DateRange{Start: "2023-06-01", End: "2023-01-01"}},
			field:    FieldDate,
			message:  "Start date cannot be later than end date.",
		},
		{
			name:     "malformed start",
			criteria: Criteria{Date: DateRange{Start: "06/01/2023"}},
			field:    FieldDate,
			message:  "Start date is not a valid date.",
		},
		{
			name:     "negative revenue min",
			criteria: Criteria{Revenue: AmountRange{Min: "-5"}},
			field:    FieldRevenue,
			message:  "Revenue range cannot contain negative numbers.",
		},
		{
			name:     "negative revenue max",
			criteria: Criteria{Revenue: AmountRange{Max: "-1"}},
			field:    FieldRevenue,
			message:  "Revenue range cannot contain negative numbers.",
		},
		{
			name:     "non numeric net income",
			criteria: Criteria{NetIncome: AmountRange{Min: "lots"}},
			field:    FieldNetIncome,
			message:  "Net income range must be numeric.",
		},
		{
			name:     "NaN revenue",
			criteria: Criteria{Revenue: AmountRange{Min: "NaN"}},
			field:    FieldRevenue,
			message:  "Revenue range must be numeric.",
		},
		{
			name:     "lower-case nan net income",
			criteria: Criteria{NetIncome: AmountRange{Max: "nan"}},
			field:    FieldNetIncome,
			message:  "Net income range must be numeric.",
		},
		{
			name:     "negative net income",
			criteria: Criteria{NetIncome: AmountRange{Max: "-100"}},
			field:    FieldNetIncome,
			message:  "Net income range cannot contain negative numbers.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.criteria.Compile()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRange))

			var rangeErr *RangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, tt.field, rangeErr.Field)
			assert.Equal(t, tt.message, rangeErr.Message)
			assert.Equal(t, tt.message, UserMessage(err))
		})
	}
}

func TestCompileShortCircuitsInOrder(t *testing.T) {
	c := Criteria{
		Date:      DateRange{Start: "2023-06-01", End: "2023-01-01"},
		Revenue:   AmountRange{Min: "-5"},
		NetIncome: AmountRange{Min: "-5"},
	}
	_, err := c.Compile()
	assert.Equal(t, "Start date cannot be later than end date.", UserMessage(err))

	c.Date = DateRange{}
	_, err = c.Compile()
	assert.Equal(t, "Revenue range cannot contain negative numbers.", UserMessage(err))
}

func TestFilterRevenueMinOnly(t *testing.T) {
	records := []Record{
		{Date: "2023-01-01", Revenue: Float(100)},
		{Date: "2022-01-01", Revenue: Float(200)},
	}
	f, err := Criteria{Revenue: AmountRange{Min: "150", Max: ""}}.Compile()
	require.NoError(t, err)

	got := f.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "2022-01-01", got[0].Date)
	assert.Equal(t, 200.0, *got[0].Revenue)
}

func TestFilterBoundsAreInclusive(t *testing.T) {
	f, err := Criteria{
		Date:    DateRange{Start: "2021-09-25", End: "2022-09-24"},
		Revenue: AmountRange{Min: "365817000000", Max: "394328000000"},
	}.Compile()
	require.NoError(t, err)

	assert.Equal(t, []string{"2022-09-24", "2021-09-25"}, dates(f.Apply(sampleRecords())))
}

func TestFilterMissingAmountComparesAsZero(t *testing.T) {
	f, err := Criteria{Revenue: AmountRange{Max: "0"}}.Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"2019-09-28"}, dates(f.Apply(sampleRecords())))

	f, err = Criteria{NetIncome: AmountRange{Min: "1"}}.Compile()
	require.NoError(t, err)
	assert.NotContains(t, dates(f.Apply(sampleRecords())), "2019-09-28")
}

func TestFilterExcludesUndatedRecordsWhenDateBounded(t *testing.T) {
	records := []Record{{Date: ""}, {Date: "garbage"}, {Date: "2020-01-01"}}
	f, err := Criteria{Date: DateRange{End: "2030-01-01"}}.Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"2020-01-01"}, dates(f.Apply(records)))
}

func TestFilterConjunction(t *testing.T) {
	c := Criteria{
		Date:      DateRange{Start: "2020-01-01"},
		Revenue:   AmountRange{Min: "300000000000"},
		NetIncome: AmountRange{Max: "97000000000"},
	}
	f, err := c.Compile()
	require.NoError(t, err)

	got := f.Apply(sampleRecords())
	assert.Equal(t, []string{"2023-09-30", "2021-09-25"}, dates(got))
	for _, r := range got {
		assert.True(t, f.Match(r))
	}
}

func TestFilterEmptyCriteriaKeepsEverything(t *testing.T) {
	c := Criteria{Revenue: AmountRange{Min: "  "}}
	assert.True(t, c.IsEmpty())

	f, err := c.Compile()
	require.NoError(t, err)
	records := sampleRecords()
	got := f.Apply(records)
	assert.Equal(t, dates(records), dates(got))

	got[0].Date = "changed"
	assert.Equal(t, "2023-09-30", records[0].Date)
}

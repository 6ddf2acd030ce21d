package view

import (
	"errors"
	"testing"

	"goincome/domain/statement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoYears() []statement.Record {
	return []statement.Record{
		{Date: "2023-01-01", Revenue: statement.Float(100)},
		{Date: "2022-01-01", Revenue: statement.Float(200)},
	}
}

func dates(records []statement.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Date
	}
	return out
}

func TestLoadPublishesCanonicalAsVisible(t *testing.T) {
	s := Load(New(), twoYears())
	assert.True(t, s.Loaded)
	assert.Equal(t, dates(s.Canonical), dates(s.Visible))
}

func TestLoadEmptyDataset(t *testing.T) {
	s := Load(New(), nil)
	assert.True(t, s.Loaded)
	assert.NotNil(t, s.Visible)
	assert.Empty(t, s.Visible)
}

func TestLoadReappliesPendingCriteria(t *testing.T) {
	s, err := ApplyFilters(New(), statement.Criteria{Revenue: statement.AmountRange{Min: "150"}})
	require.NoError(t, err)
	assert.Equal(t, NoResultsMessage, s.Notice.Text)

	s = Load(s, twoYears())
	assert.Equal(t, []string{"2022-01-01"}, dates(s.Visible))
	assert.Equal(t, "150", s.Criteria.Revenue.Min)
	assert.True(t, s.Notice.Empty())
}

func TestLoadKeepsNoResultsWhenPendingCriteriaStillMatchNothing(t *testing.T) {
	s, _ := ApplyFilters(New(), statement.Criteria{Revenue: statement.AmountRange{Min: "1000"}})
	s = Load(s, twoYears())
	assert.Empty(t, s.Visible)
	assert.Equal(t, NoResultsMessage, s.Notice.Text)
}

func TestToggleSortTwice(t *testing.T) {
	s := Load(New(), twoYears())

	s = ToggleSort(s, statement.SortByDate)
	assert.Equal(t, []string{"2022-01-01", "2023-01-01"}, dates(s.Visible))
	assert.Equal(t, statement.Ascending, s.SortDirection(statement.SortByDate))

	s = ToggleSort(s, statement.SortByDate)
	assert.Equal(t, []string{"2023-01-01", "2022-01-01"}, dates(s.Visible))
	assert.Equal(t, statement.Descending, s.SortDirection(statement.SortByDate))
	assert.Equal(t, statement.Direction(""), s.SortDirection(statement.SortByRevenue))

	assert.Equal(t, []string{"2023-01-01", "2022-01-01"}, dates(s.Canonical))
}

func TestToggleSortNewKeyResetsToAscending(t *testing.T) {
	s := Load(New(), twoYears())
	s = ToggleSort(s, statement.SortByDate)
	s = ToggleSort(s, statement.SortByRevenue)
	assert.Equal(t, statement.SortConfig{Key: statement.SortByRevenue, Direction: statement.Ascending}, *s.Sort)
	assert.Equal(t, []string{"2023-01-01", "2022-01-01"}, dates(s.Visible))
}

func TestApplyFiltersRevenueMin(t *testing.T) {
	s := Load(New(), twoYears())
	s, err := ApplyFilters(s, statement.Criteria{Revenue: statement.AmountRange{Min: "150"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-01-01"}, dates(s.Visible))
	assert.True(t, s.Notice.Empty())
}

func TestApplyFiltersIsNotCumulative(t *testing.T) {
	s := Load(New(), twoYears())
	c := statement.Criteria{Revenue: statement.AmountRange{Max: "150"}}

	s, err := ApplyFilters(s, statement.Criteria{Revenue: statement.AmountRange{Min: "150"}})
	require.NoError(t, err)
	s, err = ApplyFilters(s, c)
	require.NoError(t, err)
	first := dates(s.Visible)

	s, err = ApplyFilters(s, c)
	require.NoError(t, err)
	assert.Equal(t, first, dates(s.Visible))
	assert.Equal(t, []string{"2023-01-01"}, first)
}

func TestApplyFiltersInvalidKeepsVisible(t *testing.T) {
	s := Load(New(), twoYears())
	s = ToggleSort(s, statement.SortByDate)
	before := dates(s.Visible)

	bad := statement.Criteria{Date: statement.DateRange{Start: "2023-06-01", End: "2023-01-01"}}
	s, err := ApplyFilters(s, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, statement.ErrInvalidRange))
	assert.Equal(t, before, dates(s.Visible))
	assert.Equal(t, NoticeError, s.Notice.Kind)
	assert.Equal(t, "Start date cannot be later than end date.", s.Notice.Text)
	assert.Equal(t, bad, s.Criteria)
}

func TestApplyFiltersNoResults(t *testing.T) {
	s := Load(New(), twoYears())
	s, err := ApplyFilters(s, statement.Criteria{Revenue: statement.AmountRange{Min: "1000"}})
	require.NoError(t, err)
	assert.NotNil(t, s.Visible)
	assert.Empty(t, s.Visible)
	assert.Equal(t, Notice{Kind: NoticeInfo, Text: NoResultsMessage}, s.Notice)
}

func TestClearFiltersRestoresCanonical(t *testing.T) {
	s := Load(New(), twoYears())
	s, _ = ApplyFilters(s, statement.Criteria{Revenue: statement.AmountRange{Min: "1000"}})
	s = ToggleSort(s, statement.SortByRevenue)
	s, _ = ApplyFilters(s, statement.Criteria{Revenue: statement.AmountRange{Min: "-1"}})

	s = ClearFilters(s)
	assert.Equal(t, dates(s.Canonical), dates(s.Visible))
	assert.True(t, s.Criteria.IsEmpty())
	assert.True(t, s.Notice.Empty())
	require.NotNil(t, s.Sort)
}

func TestSortComposesWithFilter(t *testing.T) {
	records := []statement.Record{
		{Date: "2021-01-01", Revenue: statement.Float(300)},
		{Date: "2023-01-01", Revenue: statement.Float(100)},
		{Date: "2022-01-01", Revenue: statement.Float(200)},
	}
	s := Load(New(), records)
	s, err := ApplyFilters(s, statement.Criteria{Revenue: statement.AmountRange{Min: "150"}})
	require.NoError(t, err)

	s = ToggleSort(s, statement.SortByDate)
	assert.Equal(t, []string{"2021-01-01", "2022-01-01"}, dates(s.Visible))
}

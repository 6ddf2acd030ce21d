package services

import (
	"html/template"
	"strconv"

	"goincome/app"
	"goincome/domain/statement"
	"goincome/domain/view"
	"goincome/internal/profiling"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Missing is rendered for absent values
const Missing = "N/A"

var printer = message.NewPrinter(language.English)

// Currency renders "$" plus the grouped amount with up to three fraction digits
func Currency(v *float64) string {
	if v == nil {
		return Missing
	}
	return "$" + printer.Sprint(number.Decimal(*v, number.MaxFractionDigits(3)))
}

// EPS renders earnings per share as given
func EPS(v *float64) string {
	if v == nil {
		return Missing
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Percent renders a ratio as a percentage with one decimal
func Percent(v *float64) string {
	if v == nil {
		return Missing
	}
	return printer.Sprintf("%.1f%%", *v*100)
}

// FilterForm is the flat form posted by the filter panel
type FilterForm struct {
	DateStart    string `form:"dateStart"`
	DateEnd      string `form:"dateEnd"`
	RevenueMin   string `form:"revenueMin"`
	RevenueMax   string `form:"revenueMax"`
	NetIncomeMin string `form:"netIncomeMin"`
	NetIncomeMax string `form:"netIncomeMax"`
}

// Criteria converts the form to filter criteria
func (f FilterForm) Criteria() statement.Criteria {
	return statement.Criteria{
		Date:      statement.DateRange{Start: f.DateStart, End: f.DateEnd},
		Revenue:   statement.AmountRange{Min: f.RevenueMin, Max: f.RevenueMax},
		NetIncome: statement.AmountRange{Min: f.NetIncomeMin, Max: f.NetIncomeMax},
	}
}

// FormFromCriteria echoes the criteria of a state back into the form
func FormFromCriteria(c statement.Criteria) FilterForm {
	return FilterForm{
		DateStart:    c.Date.Start,
		DateEnd:      c.Date.End,
		RevenueMin:   c.Revenue.Min,
		RevenueMax:   c.Revenue.Max,
		NetIncomeMin: c.NetIncome.Min,
		NetIncomeMax: c.NetIncome.Max,
	}
}

// Row is one formatted table row
type Row struct {
	Date            string
	Revenue         string
	NetIncome       string
	GrossProfit     string
	EPS             string
	OperatingIncome string
}

// SortHeader is a clickable column header
type SortHeader struct {
	Key       string
	Label     string
	Indicator string
}

// SummaryView is the formatted statistics panel
type SummaryView struct {
	Records         int
	RevenueTotal    string
	RevenueMedian   string
	NetIncomeTotal  string
	NetIncomeMedian string
	NetMargin       string
	TrendPerYear    string
	TrendRSquared   string
	HasTrend        bool
}

// DashboardView is the data behind the page and the dashboard fragment
type DashboardView struct {
	Symbol  string
	Loaded  bool
	Form    FilterForm
	Notice  view.Notice
	Headers []SortHeader
	Rows    []Row
	Summary SummaryView
	Status  app.LoadStatus
	About   template.HTML
}

var sortLabels = map[statement.SortKey]string{
	statement.SortByDate:      "Date",
	statement.SortByRevenue:   "Revenue",
	statement.SortByNetIncome: "Net Income",
}

// BuildDashboardView formats a session state for rendering
func BuildDashboardView(symbol string, st view.State, sum profiling.Summary) DashboardView {
	dv := DashboardView{
		Symbol:  symbol,
		Loaded:  st.Loaded,
		Form:    FormFromCriteria(st.Criteria),
		Notice:  st.Notice,
		Rows:    make([]Row, 0, len(st.Visible)),
		Summary: buildSummary(sum),
	}

	for _, key := range statement.SortKeys {
		h := SortHeader{Key: string(key), Label: sortLabels[key]}
		switch st.SortDirection(key) {
		case statement.Ascending:
			h.Indicator = "▲"
		case statement.Descending:
			h.Indicator = "▼"
		}
		dv.Headers = append(dv.Headers, h)
	}

	for _, r := range st.Visible {
		dv.Rows = append(dv.Rows, Row{
			Date:            r.Date,
			Revenue:         Currency(r.Revenue),
			NetIncome:       Currency(r.NetIncome),
			GrossProfit:     Currency(r.GrossProfit),
			EPS:             EPS(r.EPS),
			OperatingIncome: Currency(r.OperatingIncome),
		})
	}
	return dv
}

func buildSummary(sum profiling.Summary) SummaryView {
	sv := SummaryView{
		Records:         sum.Records,
		RevenueTotal:    Missing,
		RevenueMedian:   Missing,
		NetIncomeTotal:  Missing,
		NetIncomeMedian: Missing,
		NetMargin:       Percent(sum.MedianNetMargin),
		HasTrend:        sum.RevenueTrend.Available,
	}
	if sum.Revenue.Available {
		sv.RevenueTotal = Currency(&sum.Revenue.Total)
		sv.RevenueMedian = Currency(&sum.Revenue.Median)
	}
	if sum.NetIncome.Available {
		sv.NetIncomeTotal = Currency(&sum.NetIncome.Total)
		sv.NetIncomeMedian = Currency(&sum.NetIncome.Median)
	}
	if sv.HasTrend {
		sv.TrendPerYear = Currency(&sum.RevenueTrend.PerYear)
		sv.TrendRSquared = printer.Sprintf("%.2f", sum.RevenueTrend.RSquared)
	}
	return sv
}

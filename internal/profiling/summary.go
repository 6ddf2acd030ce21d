package profiling

import (
	"sort"

	"goincome/domain/statement"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// FieldSummary describes one numeric column over the records that carry it
type FieldSummary struct {
	Available bool    `json:"available"`
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Trend is the least-squares line of a field against fiscal year
type Trend struct {
	Available bool    `json:"available"`
	Points    int     `json:"points"`
	PerYear   float64 `json:"perYear"`
	RSquared  float64 `json:"rSquared"`
	FromYear  int     `json:"fromYear,omitempty"`
	ToYear    int     `json:"toYear,omitempty"`
}

// Summary is the panel shown next to the table for the visible subset
type Summary struct {
	Records         int          `json:"records"`
	Revenue         FieldSummary `json:"revenue"`
	NetIncome       FieldSummary `json:"netIncome"`
	MedianNetMargin *float64     `json:"medianNetMargin,omitempty"`
	RevenueTrend    Trend        `json:"revenueTrend"`
}

// Summarize computes the summary of records. Missing values are skipped,
// never treated as zero.
func Summarize(records []statement.Record) Summary {
	s := Summary{
		Records:   len(records),
		Revenue:   summarizeField(records, statement.FieldRevenue),
		NetIncome: summarizeField(records, statement.FieldNetIncome),
	}

	var margins []float64
	for _, r := range records {
		if r.Revenue != nil && r.NetIncome != nil && *r.Revenue != 0 {
			margins = append(margins, *r.NetIncome / *r.Revenue)
		}
	}
	if len(margins) > 0 {
		if m, err := stats.Median(margins); err == nil {
			s.MedianNetMargin = &m
		}
	}

	s.RevenueTrend = trendByYear(records, statement.FieldRevenue)
	return s
}

func summarizeField(records []statement.Record, field string) FieldSummary {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := r.Amount(field); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return FieldSummary{}
	}

	data := stats.Float64Data(values)
	fs := FieldSummary{Available: true, Count: len(values)}
	var err error
	if fs.Total, err = data.Sum(); err != nil {
		return FieldSummary{}
	}
	if fs.Mean, err = data.Mean(); err != nil {
		return FieldSummary{}
	}
	if fs.Median, err = data.Median(); err != nil {
		return FieldSummary{}
	}
	if fs.Min, err = data.Min(); err != nil {
		return FieldSummary{}
	}
	if fs.Max, err = data.Max(); err != nil {
		return FieldSummary{}
	}
	return fs
}

// trendByYear fits value = alpha + beta*year over records that have both a
// parseable date and the field. Needs two distinct years.
func trendByYear(records []statement.Record, field string) Trend {
	type point struct {
		year  float64
		value float64
	}
	var points []point
	for _, r := range records {
		year, okYear := r.Year()
		v, okValue := r.Amount(field)
		if okYear && okValue {
			points = append(points, point{float64(year), v})
		}
	}
	if len(points) < 2 {
		return Trend{Points: len(points)}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].year < points[j].year })
	if points[0].year == points[len(points)-1].year {
		return Trend{Points: len(points)}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.year, p.value
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Trend{
		Available: true,
		Points:    len(points),
		PerYear:   beta,
		RSquared:  stat.RSquared(xs, ys, nil, alpha, beta),
		FromYear:  int(xs[0]),
		ToYear:    int(xs[len(xs)-1]),
	}
}

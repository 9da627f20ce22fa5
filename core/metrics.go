package core

import (
	"math"
	"slices"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	ex "github.com/hyunsikhwang/marketpulse/extensions"
	m "github.com/hyunsikhwang/marketpulse/models"
)

const TradingDaysPerYear = 252

// Round2 rounds to two decimals for display, the normalization contract
// itself stays full precision.
func Round2(v float64) float64 {
	res, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return res
}

// BuildSummaryCards computes the metric tiles from the normalized table, one
// per surviving column: the latest baseline 100 value, the year to date move
// and the period's range and volatility.
func (sc *ServiceContext) BuildSummaryCards(table *m.SeriesTable) []m.SummaryCard {
	cards := make([]m.SummaryCard, 0, len(table.Columns))

	for _, col := range table.Columns {
		values := validValues(table.Cells[col])
		if len(values) == 0 {
			continue
		}

		latest := values[len(values)-1]

		ticker := ""
		if entry, err := ex.FilterSingle(sc.Registry, func(e m.IndexEntry) bool { return e.Name == col }); err == nil {
			ticker = entry.Ticker
		}

		cards = append(cards, m.SummaryCard{
			Name:                 col,
			Ticker:               ticker,
			Latest:               Round2(latest),
			YTDPercent:           Round2(latest - 100),
			PeriodHigh:           Round2(slices.Max(values)),
			PeriodLow:            Round2(slices.Min(values)),
			AnnualizedVolatility: Round2(annualizedVolatility(values) * 100),
		})
	}

	return cards
}

// annualizedVolatility is the sample standard deviation of daily log returns
// scaled to a trading year
func annualizedVolatility(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}

	logReturns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 || values[i] <= 0 {
			continue
		}
		logReturns = append(logReturns, math.Log(values[i]/values[i-1]))
	}

	if len(logReturns) < 2 {
		return 0
	}

	return stat.StdDev(logReturns, nil) * math.Sqrt(TradingDaysPerYear)
}

func validValues(cells []null.Float) []float64 {
	res := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell.Valid {
			res = append(res, cell.Float64)
		}
	}
	return res
}

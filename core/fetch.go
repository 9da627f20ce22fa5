package core

import (
	"fmt"
	"log"
	"time"

	ex "github.com/hyunsikhwang/marketpulse/extensions"
	m "github.com/hyunsikhwang/marketpulse/models"
)

// FetchReport carries the joined table plus the per ticker failures that get
// surfaced to the user. A failed ticker means a missing column, never a
// fabricated one.
type FetchReport struct {
	Table    *m.SeriesTable
	Warnings []string
}

// FetchWindow is the implicit date range for every render, December 10th of
// the previous year through today. The early December start guarantees a
// previous year close exists for every market's holiday calendar.
func FetchWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year()-1, time.December, 10, 0, 0, 0, 0, time.UTC)
	return start, now
}

// FetchIndexTable retrieves daily closes for every registry entry, renames
// columns to display names and forward fills the joined table. Tickers are
// fetched one at a time, a render is a single synchronous pass.
func (sc *ServiceContext) FetchIndexTable() (*FetchReport, error) {
	start, end := FetchWindow(time.Now())

	report := &FetchReport{}
	columns := make([]m.ColumnSeries, 0, len(sc.Registry))

	for _, entry := range sc.Registry {
		points, err := sc.YahooClient.DailyCloses(entry.Ticker, start, end)
		if err != nil {
			log.Printf("error fetching %s (%s): %v", entry.Name, entry.Ticker, err)
			report.Warnings = append(report.Warnings, fmt.Sprintf("error fetching %s: %v", entry.Name, err))
			continue
		}

		columns = append(columns, m.ColumnSeries{
			Name:   entry.Name,
			Points: points,
		})
	}

	table := m.BuildSeriesTable(columns)
	if err := table.Validate(); err != nil {
		return nil, err
	}

	table.ForwardFill()
	report.Table = table

	log.Printf("fetched %v of %v indices, %v trading dates between %s and %s",
		len(columns), len(sc.Registry), len(table.Dates), ex.FmtShort(start), ex.FmtShort(end))

	return report, nil
}

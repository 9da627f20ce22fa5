package core

import (
	"errors"
	"slices"
	"time"

	"github.com/guregu/null/v6"

	m "github.com/hyunsikhwang/marketpulse/models"
)

// ErrNoBaseline means the fetched table held no previous year rows, so there
// is nothing to anchor the rescale to. Callers fall back to raw data.
var ErrNoBaseline = errors.New("no baseline available for previous year")

// Normalize rescales the table so each column reads 100 at its own last
// previous year close. The result is that anchor row followed by the current
// year rows, columns without a usable baseline are dropped and reported back.
func Normalize(table *m.SeriesTable, currentYear int) (*m.SeriesTable, []string, error) {
	previousYear := table.FilterRows(func(d time.Time) bool { return d.Year() == currentYear-1 })
	if len(previousYear.Dates) == 0 {
		return nil, nil, ErrNoBaseline
	}

	thisYear := table.FilterRows(func(d time.Time) bool { return d.Year() == currentYear })

	// one value per column, the forward filled close nearest year end
	baseline := previousYear.LastRow()

	// the anchor row gives the chart a day zero at exactly 100
	display := previousYear.Tail(1).Append(thisYear)

	var dropped []string
	for _, col := range slices.Clone(display.Columns) {
		base := baseline[col]
		if !base.Valid || base.Float64 == 0 || display.ColumnIsEmpty(col) {
			display.DropColumn(col)
			dropped = append(dropped, col)
			continue
		}

		cells := display.Cells[col]
		for i := range cells {
			if !cells[i].Valid {
				continue
			}
			cells[i] = null.FloatFrom(cells[i].Float64 / base.Float64 * 100)
		}
	}

	return display, dropped, nil
}

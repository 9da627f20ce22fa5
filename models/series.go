package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/guregu/null/v6"

	ex "github.com/hyunsikhwang/marketpulse/extensions"
)

// ClosePoint is one trading day's closing price for a single ticker.
// Close is nullable, yahoo reports null entries for days a market prints no price.
type ClosePoint struct {
	Timestamp time.Time
	Close     null.Float
}

// ColumnSeries pairs a display name with the daily closes fetched for its ticker.
type ColumnSeries struct {
	Name   string
	Points []*ClosePoint
}

// SeriesTable is a date indexed table where each column is one index's close
// (raw, or baseline 100 after normalization). Dates are ascending and unique,
// cells can be missing until forward filling aligns the trading calendars.
type SeriesTable struct {
	Dates   []time.Time
	Columns []string
	Cells   map[string][]null.Float
}

// BuildSeriesTable joins per ticker series on the union of their trading dates.
// Later points win when a ticker reports the same date twice.
func BuildSeriesTable(columns []ColumnSeries) *SeriesTable {
	dateSet := make(map[time.Time]bool)
	for _, col := range columns {
		for _, p := range col.Points {
			dateSet[p.Timestamp] = true
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(i, j time.Time) int {
		return i.Compare(j)
	})

	position := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		position[d] = i
	}

	res := &SeriesTable{
		Dates:   dates,
		Columns: make([]string, 0, len(columns)),
		Cells:   make(map[string][]null.Float, len(columns)),
	}

	for _, col := range columns {
		cells := make([]null.Float, len(dates))
		for _, p := range col.Points {
			cells[position[p.Timestamp]] = p.Close
		}
		res.Columns = append(res.Columns, col.Name)
		res.Cells[col.Name] = cells
	}

	return res
}

// Value returns the cell for a column at a row index.
func (t *SeriesTable) Value(column string, row int) null.Float {
	cells, ok := t.Cells[column]
	if !ok || row < 0 || row >= len(cells) {
		return null.NewFloat(0, false)
	}
	return cells[row]
}

// IsEmpty reports whether the table holds no rows or no columns.
func (t *SeriesTable) IsEmpty() bool {
	return t == nil || len(t.Dates) == 0 || len(t.Columns) == 0
}

// Validate checks every column spans the full date index.
func (t *SeriesTable) Validate() error {
	lengths := make([]int, 0, len(t.Columns)+1)
	lengths = append(lengths, len(t.Dates))
	for _, col := range t.Columns {
		lengths = append(lengths, len(t.Cells[col]))
	}

	if !ex.AreAllEqual(lengths) {
		return fmt.Errorf("table validation failed, column lengths do not align with date index")
	}

	return nil
}

// ForwardFill propagates the last known close across gaps, so a market closed
// for a local holiday inherits its previous trading day's value. Leading gaps
// stay unfilled, a column has no value before its first observation.
func (t *SeriesTable) ForwardFill() {
	for _, col := range t.Columns {
		cells := t.Cells[col]
		last := null.NewFloat(0, false)
		for i := range cells {
			if cells[i].Valid {
				last = cells[i]
				continue
			}
			cells[i] = last
		}
	}
}

// FilterRows returns a copy holding only rows whose date satisfies the predicate.
func (t *SeriesTable) FilterRows(predicate func(time.Time) bool) *SeriesTable {
	indices := make([]int, len(t.Dates))
	for i := range t.Dates {
		indices[i] = i
	}

	keep := ex.FilterMultiple(indices, func(i int) bool { return predicate(t.Dates[i]) })
	return t.selectRows(keep)
}

// Tail returns a copy holding only the last n rows.
func (t *SeriesTable) Tail(n int) *SeriesTable {
	n = ex.Min(n, len(t.Dates))
	indices := make([]int, 0, n)
	for i := len(t.Dates) - n; i < len(t.Dates); i++ {
		indices = append(indices, i)
	}
	return t.selectRows(indices)
}

// Append stacks another table's rows under this one. Columns follow the
// receiver, cells missing from the other table stay null.
func (t *SeriesTable) Append(other *SeriesTable) *SeriesTable {
	res := &SeriesTable{
		Dates:   make([]time.Time, 0, len(t.Dates)+len(other.Dates)),
		Columns: slices.Clone(t.Columns),
		Cells:   make(map[string][]null.Float, len(t.Columns)),
	}

	res.Dates = append(res.Dates, t.Dates...)
	res.Dates = append(res.Dates, other.Dates...)

	for _, col := range t.Columns {
		cells := make([]null.Float, 0, len(res.Dates))
		cells = append(cells, t.Cells[col]...)
		if otherCells, ok := other.Cells[col]; ok {
			cells = append(cells, otherCells...)
		} else {
			cells = append(cells, make([]null.Float, len(other.Dates))...)
		}
		res.Cells[col] = cells
	}

	return res
}

// LastRow returns the final row as a column keyed lookup.
func (t *SeriesTable) LastRow() map[string]null.Float {
	res := make(map[string]null.Float, len(t.Columns))
	if len(t.Dates) == 0 {
		return res
	}

	last := len(t.Dates) - 1
	for _, col := range t.Columns {
		res[col] = t.Cells[col][last]
	}
	return res
}

// DropColumn removes a column from the table.
func (t *SeriesTable) DropColumn(name string) {
	t.Columns = ex.FilterMultiple(t.Columns, func(c string) bool { return c != name })
	delete(t.Cells, name)
}

// ColumnIsEmpty reports whether a column holds no valid cell at all.
func (t *SeriesTable) ColumnIsEmpty(name string) bool {
	for _, cell := range t.Cells[name] {
		if cell.Valid {
			return false
		}
	}
	return true
}

func (t *SeriesTable) selectRows(indices []int) *SeriesTable {
	res := &SeriesTable{
		Dates:   make([]time.Time, len(indices)),
		Columns: slices.Clone(t.Columns),
		Cells:   make(map[string][]null.Float, len(t.Columns)),
	}

	for i, idx := range indices {
		res.Dates[i] = t.Dates[idx]
	}

	for _, col := range t.Columns {
		cells := make([]null.Float, len(indices))
		for i, idx := range indices {
			cells[i] = t.Cells[col][idx]
		}
		res.Cells[col] = cells
	}

	return res
}

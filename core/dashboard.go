package core

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	ex "github.com/hyunsikhwang/marketpulse/extensions"
	m "github.com/hyunsikhwang/marketpulse/models"
)

// ErrNoData is terminal for a render cycle, nothing at all could be fetched
var ErrNoData = errors.New("no index data could be fetched")

// BuildDashboard runs one render cycle: cached fetch, normalize, summarize.
// A missing baseline degrades to raw closes with a warning instead of failing,
// per ticker fetch failures ride along as warnings next to the partial data.
func (sc *ServiceContext) BuildDashboard() (*m.DashboardResponse, error) {
	start := time.Now()

	report, err := sc.Cache.Get(sc.FetchIndexTable)
	if err != nil {
		return nil, err
	}

	if report.Table.IsEmpty() {
		if len(report.Warnings) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoData, strings.Join(report.Warnings, "; "))
		}
		return nil, ErrNoData
	}

	currentYear := time.Now().Year()
	warnings := slices.Clone(report.Warnings)

	normalized, dropped, err := Normalize(report.Table, currentYear)
	for _, col := range dropped {
		warnings = append(warnings, fmt.Sprintf("%s excluded, no usable previous year baseline", col))
	}

	if errors.Is(err, ErrNoBaseline) || (err == nil && normalized.IsEmpty()) {
		log.Printf("no previous year (%d) rows in fetched table, falling back to raw closes", currentYear-1)
		warnings = append(warnings, fmt.Sprintf("no data found for previous year (%d), showing raw closes", currentYear-1))

		return &m.DashboardResponse{
			Normalized: false,
			XAxis:      xAxisLabels(report.Table),
			Series:     mapChartSeries(report.Table),
			Warnings:   warnings,
		}, nil
	}

	if err != nil {
		return nil, err
	}

	response := &m.DashboardResponse{
		Normalized:   true,
		BaselineMark: 100,
		XAxis:        xAxisLabels(normalized),
		Series:       mapChartSeries(normalized),
		Cards:        sc.BuildSummaryCards(normalized),
		Warnings:     warnings,
	}

	log.Printf("dashboard built, %v series over %v dates (time: %v)", len(response.Series), len(response.XAxis), time.Since(start))
	return response, nil
}

// RawTable returns the forward filled table before normalization
func (sc *ServiceContext) RawTable() (*m.TablePayload, []string, error) {
	report, err := sc.Cache.Get(sc.FetchIndexTable)
	if err != nil {
		return nil, nil, err
	}

	if report.Table.IsEmpty() {
		return nil, nil, ErrNoData
	}

	return mapTablePayload(report.Table), report.Warnings, nil
}

func xAxisLabels(table *m.SeriesTable) []string {
	labels := make([]string, len(table.Dates))
	for i, d := range table.Dates {
		labels[i] = ex.FmtShort(d)
	}
	return labels
}

func mapChartSeries(table *m.SeriesTable) []m.ChartSeries {
	series := make([]m.ChartSeries, 0, len(table.Columns))
	for _, col := range table.Columns {
		values := make([]*float64, len(table.Dates))
		for i, cell := range table.Cells[col] {
			if cell.Valid {
				rounded := Round2(cell.Float64)
				values[i] = &rounded
			}
		}
		series = append(series, m.ChartSeries{
			Name:   col,
			Values: values,
		})
	}
	return series
}

func mapTablePayload(table *m.SeriesTable) *m.TablePayload {
	rows := make([][]*float64, len(table.Dates))
	for i := range table.Dates {
		row := make([]*float64, len(table.Columns))
		for j, col := range table.Columns {
			if cell := table.Value(col, i); cell.Valid {
				rounded := Round2(cell.Float64)
				row[j] = &rounded
			}
		}
		rows[i] = row
	}

	return &m.TablePayload{
		Dates:   xAxisLabels(table),
		Columns: slices.Clone(table.Columns),
		Rows:    rows,
	}
}

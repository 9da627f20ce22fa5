package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	ex "github.com/hyunsikhwang/marketpulse/extensions"
	m "github.com/hyunsikhwang/marketpulse/models"
)

// render cycle tests run against the wall clock year, the same way the
// service partitions live data
func renderDays() (prevTail, currFirst, currSecond string) {
	year := time.Now().Year()
	return fmt.Sprintf("%d-12-30", year-1),
		fmt.Sprintf("%d-01-02", year),
		fmt.Sprintf("%d-01-03", year)
}

func renderContext(fc *fakeConnection, registry []m.IndexEntry) ServiceContext {
	return ServiceContext{
		YahooClient: fakeYahooClient(fc),
		Registry:    registry,
		Cache:       NewTableCache(time.Hour),
	}
}

func Test_BuildDashboard_NormalizedRender(t *testing.T) {
	prevTail, currFirst, currSecond := renderDays()

	fc := &fakeConnection{
		responses: map[string]string{
			"^GSPC": chartBody(t, "^GSPC",
				[]string{prevTail, currFirst, currSecond},
				[]*float64{f(5900), f(5950), f(5975)}),
			"^KS11": chartBody(t, "^KS11",
				[]string{prevTail, currFirst, currSecond},
				[]*float64{f(2400), f(2430), f(2445)}),
		},
	}

	sc := renderContext(fc, []m.IndexEntry{
		{Name: "S&P500", Ticker: "^GSPC"},
		{Name: "KOSPI", Ticker: "^KS11"},
	})

	res, err := sc.BuildDashboard()
	if err != nil {
		t.Fatalf("error building dashboard: %v", err)
	}

	ex.AssertAreEqual(t, "normalized", true, res.Normalized)
	ex.AssertAreEqual(t, "baseline mark", 100.0, res.BaselineMark)
	ex.AssertAreEqual(t, "warnings", 0, len(res.Warnings))
	ex.AssertAreEqual(t, "x axis length", 3, len(res.XAxis))
	ex.AssertAreEqual(t, "anchor label", prevTail, res.XAxis[0])
	ex.AssertAreEqual(t, "series count", 2, len(res.Series))
	ex.AssertAreEqual(t, "card count", 2, len(res.Cards))

	// every series opens at exactly 100
	for _, series := range res.Series {
		ex.AssertNillability(t, series.Name+" anchor", false, series.Values[0])
		ex.AssertAreEqual(t, series.Name+" anchor value", 100.0, *series.Values[0])
	}

	// chart values carry two decimals
	kospi, err := ex.FilterSingle(res.Series, func(s m.ChartSeries) bool { return s.Name == "KOSPI" })
	if err != nil {
		t.Fatalf("error finding KOSPI series: %v", err)
	}
	ex.AssertAreEqual(t, "kospi current", Round2(2430.0/2400.0*100), *kospi.Values[1])
}

func Test_BuildDashboard_PartialFetchKeepsRendering(t *testing.T) {
	prevTail, currFirst, _ := renderDays()

	fc := &fakeConnection{
		responses: map[string]string{
			"^GSPC": chartBody(t, "^GSPC",
				[]string{prevTail, currFirst},
				[]*float64{f(5900), f(5950)}),
		},
		fail: map[string]bool{"^N225": true},
	}

	sc := renderContext(fc, []m.IndexEntry{
		{Name: "S&P500", Ticker: "^GSPC"},
		{Name: "Nikkei 225", Ticker: "^N225"},
	})

	res, err := sc.BuildDashboard()
	if err != nil {
		t.Fatalf("error building dashboard: %v", err)
	}

	ex.AssertAreEqual(t, "normalized", true, res.Normalized)
	ex.AssertAreEqual(t, "series count", 1, len(res.Series))
	ex.AssertAreEqual(t, "warnings", 1, len(res.Warnings))
	if !strings.Contains(res.Warnings[0], "Nikkei 225") {
		t.Fatalf("expected warning naming the failed index, got %q", res.Warnings[0])
	}
}

func Test_BuildDashboard_NoBaselineFallsBackToRaw(t *testing.T) {
	_, currFirst, currSecond := renderDays()

	fc := &fakeConnection{
		responses: map[string]string{
			"^GSPC": chartBody(t, "^GSPC",
				[]string{currFirst, currSecond},
				[]*float64{f(5950), f(5975)}),
		},
	}

	sc := renderContext(fc, []m.IndexEntry{
		{Name: "S&P500", Ticker: "^GSPC"},
	})

	res, err := sc.BuildDashboard()
	if err != nil {
		t.Fatalf("error building dashboard: %v", err)
	}

	ex.AssertAreEqual(t, "normalized", false, res.Normalized)
	ex.AssertAreEqual(t, "card count", 0, len(res.Cards))
	ex.AssertAreEqual(t, "series count", 1, len(res.Series))

	// raw closes come through rather than baseline 100 values
	ex.AssertAreEqual(t, "raw value", 5950.0, *res.Series[0].Values[0])

	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[len(res.Warnings)-1], "previous year") {
		t.Fatalf("expected a previous year warning, got %v", res.Warnings)
	}
}

func Test_BuildDashboard_EmptyResultIsTerminal(t *testing.T) {
	fc := &fakeConnection{
		fail: map[string]bool{"^GSPC": true, "^KS11": true},
	}

	sc := renderContext(fc, []m.IndexEntry{
		{Name: "S&P500", Ticker: "^GSPC"},
		{Name: "KOSPI", Ticker: "^KS11"},
	})

	_, err := sc.BuildDashboard()
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	// the failure detail rides along in the message
	if !strings.Contains(err.Error(), "S&P500") {
		t.Fatalf("expected error to carry fetch detail, got %q", err.Error())
	}
}

func Test_BuildDashboard_SecondRenderHitsCache(t *testing.T) {
	prevTail, currFirst, _ := renderDays()

	fc := &fakeConnection{
		responses: map[string]string{
			"^GSPC": chartBody(t, "^GSPC",
				[]string{prevTail, currFirst},
				[]*float64{f(5900), f(5950)}),
		},
	}

	sc := renderContext(fc, []m.IndexEntry{
		{Name: "S&P500", Ticker: "^GSPC"},
	})

	if _, err := sc.BuildDashboard(); err != nil {
		t.Fatalf("error on first render: %v", err)
	}
	if _, err := sc.BuildDashboard(); err != nil {
		t.Fatalf("error on second render: %v", err)
	}

	ex.AssertAreEqual(t, "upstream requests", 1, len(fc.calls))
}

func Test_RawTable(t *testing.T) {
	prevTail, currFirst, _ := renderDays()

	fc := &fakeConnection{
		responses: map[string]string{
			"^GSPC": chartBody(t, "^GSPC",
				[]string{prevTail, currFirst},
				[]*float64{f(5900), f(5950)}),
		},
		fail: map[string]bool{"^KS11": true},
	}

	sc := renderContext(fc, []m.IndexEntry{
		{Name: "S&P500", Ticker: "^GSPC"},
		{Name: "KOSPI", Ticker: "^KS11"},
	})

	payload, warnings, err := sc.RawTable()
	if err != nil {
		t.Fatalf("error getting raw table: %v", err)
	}

	ex.AssertAreEqual(t, "columns", 1, len(payload.Columns))
	ex.AssertAreEqual(t, "rows", 2, len(payload.Rows))
	ex.AssertAreEqual(t, "warnings", 1, len(warnings))
	ex.AssertAreEqual(t, "first close", 5900.0, *payload.Rows[0][0])
}

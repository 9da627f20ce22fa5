package core

import (
	"testing"

	ex "github.com/hyunsikhwang/marketpulse/extensions"
	m "github.com/hyunsikhwang/marketpulse/models"
)

func Test_Round2(t *testing.T) {
	ex.AssertAreEqual(t, "round down", 105.26, Round2(105.2631578947))
	ex.AssertAreEqual(t, "round up", 109.99, Round2(109.985))
	ex.AssertAreEqual(t, "negative", -3.47, Round2(-3.466))
	ex.AssertAreEqual(t, "exact", 100.0, Round2(100.0))
}

func Test_BuildSummaryCards(t *testing.T) {
	table := buildTestTable(t,
		[]string{"2024-12-30", "2025-01-02", "2025-01-03", "2025-01-06"},
		map[string][]*float64{
			"KOSPI": {f(100), f(104.2342), f(98.5), f(103.4567)},
		})

	sc := ServiceContext{Registry: m.DefaultIndices()}
	cards := sc.BuildSummaryCards(table)

	ex.AssertAreEqual(t, "card count", 1, len(cards))

	card := cards[0]
	ex.AssertAreEqual(t, "name", "KOSPI", card.Name)
	ex.AssertAreEqual(t, "ticker from registry", "^KS11", card.Ticker)
	ex.AssertAreEqual(t, "latest", 103.46, card.Latest)
	ex.AssertAreEqual(t, "ytd percent", 3.46, card.YTDPercent)
	ex.AssertAreEqual(t, "period high", 104.23, card.PeriodHigh)
	ex.AssertAreEqual(t, "period low", 98.5, card.PeriodLow)

	if card.AnnualizedVolatility <= 0 {
		t.Fatalf("expected positive volatility, got %v", card.AnnualizedVolatility)
	}
}

func Test_BuildSummaryCards_UnknownColumnHasNoTicker(t *testing.T) {
	table := buildTestTable(t,
		[]string{"2024-12-30", "2025-01-02"},
		map[string][]*float64{
			"Custom Basket": {f(100), f(101)},
		})

	sc := ServiceContext{Registry: m.DefaultIndices()}
	cards := sc.BuildSummaryCards(table)

	ex.AssertAreEqual(t, "card count", 1, len(cards))
	ex.AssertAreEqual(t, "ticker", "", cards[0].Ticker)

	// two values are not enough observations for a volatility
	ex.AssertAreEqual(t, "volatility", 0.0, cards[0].AnnualizedVolatility)
}

func Test_BuildSummaryCards_SkipsEmptyColumn(t *testing.T) {
	table := buildTestTable(t,
		[]string{"2024-12-30", "2025-01-02"},
		map[string][]*float64{
			"KOSPI":  {f(100), f(102)},
			"Sensex": {nil, nil},
		})

	sc := ServiceContext{Registry: m.DefaultIndices()}
	cards := sc.BuildSummaryCards(table)

	ex.AssertAreEqual(t, "card count", 1, len(cards))
	ex.AssertAreEqual(t, "card name", "KOSPI", cards[0].Name)
}

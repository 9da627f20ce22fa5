package models

// IndexEntry maps a display name to the ticker yahoo knows it by.
type IndexEntry struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// DefaultIndices is the fixed registry of tracked indices, read only after startup.
func DefaultIndices() []IndexEntry {
	return []IndexEntry{
		{Name: "S&P500", Ticker: "^GSPC"},
		{Name: "NASDAQ", Ticker: "^IXIC"},
		{Name: "Dow Jones Industry", Ticker: "^DJI"},
		{Name: "Nikkei 225", Ticker: "^N225"},
		{Name: "Nifty50", Ticker: "^NSEI"},
		{Name: "Sensex", Ticker: "^BSESN"},
		{Name: "KOSPI", Ticker: "^KS11"},
		{Name: "KOSDAQ", Ticker: "^KQ11"},
	}
}

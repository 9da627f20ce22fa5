package models

// ServiceResponse is the envelope every endpoint returns to the front end
type ServiceResponse[T any] struct {
	Data  *T     `json:"data"`
	Error string `json:"error"`
}

func GetServiceResponseOk[T any](data *T) ServiceResponse[T] {
	return ServiceResponse[T]{
		Data:  data,
		Error: "",
	}
}

func GetServiceResponseError(errorMessage string) ServiceResponse[any] {
	return ServiceResponse[any]{
		Data:  nil,
		Error: errorMessage,
	}
}

// DashboardResponse is everything the chart page needs in one payload.
// Normalized is false when no previous year baseline existed and the series
// carry raw closes instead of baseline 100 values.
type DashboardResponse struct {
	Normalized   bool          `json:"normalized"`
	BaselineMark float64       `json:"baselineMark"`
	XAxis        []string      `json:"xAxis"`
	Series       []ChartSeries `json:"series"`
	Cards        []SummaryCard `json:"cards"`
	Warnings     []string      `json:"warnings"`
}

// ChartSeries is one line on the chart. Values are nullable so a raw fallback
// series can carry its leading gaps through to the front end.
type ChartSeries struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// SummaryCard is one metric tile above the chart
type SummaryCard struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	Latest               float64 `json:"latest"`
	YTDPercent           float64 `json:"ytdPercent"`
	PeriodHigh           float64 `json:"periodHigh"`
	PeriodLow            float64 `json:"periodLow"`
	AnnualizedVolatility float64 `json:"annualizedVolatility"`
}

// TablePayload is the raw data view, the table as dates, columns and row values
type TablePayload struct {
	Dates   []string     `json:"dates"`
	Columns []string     `json:"columns"`
	Rows    [][]*float64 `json:"rows"`
}

package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/guregu/null/v6"

	c "github.com/hyunsikhwang/marketpulse/api"
	m "github.com/hyunsikhwang/marketpulse/models"
)

// public
const (
	HostDefault = "query1.finance.yahoo.com"
)

// private
const (
	chartPath = "/v8/finance/chart/"

	period1  = "period1"
	period2  = "period2"
	interval = "interval"
	events   = "events"

	defaultInterval = "1d"
	defaultEvents   = "history"

	requestTimeout = time.Second * 30

	// yahoo rejects requests without a browser user agent
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

type YahooClient struct {
	*c.Client
}

func GetClient(host string) YahooClient {
	if host == "" {
		host = HostDefault
	}

	return YahooClient{
		c.ClientFactory(host, userAgent, requestTimeout),
	}
}

// chartResponse mirrors the yahoo v8 chart json
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				Currency  string `json:"currency"`
				GmtOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamps []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses queries one ticker's daily closing prices over a date range.
// Points come back ascending by trading date, one calendar day granularity.
func (yc YahooClient) DailyCloses(ticker string, start, end time.Time) ([]*m.ClosePoint, error) {
	endpoint := yc.buildRequestPath(ticker, map[string]string{
		period1: strconv.FormatInt(start.Unix(), 10),
		period2: strconv.FormatInt(end.Unix(), 10),
	})

	response, err := yc.Client.Connection.Request(endpoint)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode != 200 {
		return nil, fmt.Errorf("yahoo returned status %d for ticker %s", response.StatusCode, ticker)
	}

	return parseChartRequestResult(response.Body, ticker)
}

func (yc YahooClient) buildRequestPath(ticker string, params map[string]string) *url.URL {
	// build our URL
	endpoint := &url.URL{}
	endpoint.Path = chartPath + ticker

	// base parameters
	query := endpoint.Query()
	query.Set(interval, defaultInterval)
	query.Set(events, defaultEvents)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func parseChartRequestResult(reader io.Reader, ticker string) ([]*m.ClosePoint, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error for ticker %s: %s (%s)", ticker, resp.Chart.Error.Description, resp.Chart.Error.Code)
	}

	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data returned for ticker %s", ticker)
	}

	result := resp.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	if len(result.Timestamps) != len(closes) {
		return nil, fmt.Errorf("timestamp and close lengths do not align for ticker %s", ticker)
	}

	points := make([]*m.ClosePoint, 0, len(closes))
	for i, ts := range result.Timestamps {
		points = append(points, &m.ClosePoint{
			Timestamp: tradingDate(ts, result.Meta.GmtOffset),
			Close:     toNullFloat(closes[i]),
		})
	}

	slices.SortFunc(points, func(i, j *m.ClosePoint) int {
		return i.Timestamp.Compare(j.Timestamp)
	})

	return points, nil
}

// tradingDate collapses a session timestamp to the calendar day in the
// exchange's own time zone, different markets then join on the same date.
func tradingDate(unixSeconds, gmtOffset int64) time.Time {
	local := time.Unix(unixSeconds+gmtOffset, 0).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func toNullFloat(val *float64) null.Float {
	if val == nil {
		return null.NewFloat(0, false)
	}
	return null.NewFloat(*val, true)
}

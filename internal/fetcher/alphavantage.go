package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"PEAScout/internal/model"
)

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage REST API.
// Used as the alternative data source when an API key is configured.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(apiKey, proxyURL string) *AlphaVantageFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlphaVantageFetcher{
		BaseURL: "https://www.alphavantage.co",
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avDaily is the expected JSON shape of the TIME_SERIES_DAILY endpoint.
type avDaily struct {
	Note      string                  `json:"Note"`
	ErrorMsg  string                  `json:"Error Message"`
	TimeSeries map[string]avDailyEntry `json:"Time Series (Daily)"`
}

type avDailyEntry struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func (f *AlphaVantageFetcher) History(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	outputSize := "compact" // last 100 bars
	if days > 100 {
		outputSize = "full"
	}
	endpoint := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=%s&apikey=%s",
		f.BaseURL, url.QueryEscape(symbol), outputSize, f.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload avDaily
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if payload.ErrorMsg != "" {
		return nil, fmt.Errorf("alphavantage api error: %s", payload.ErrorMsg)
	}
	if payload.Note != "" {
		return nil, fmt.Errorf("alphavantage throttled: %s", payload.Note)
	}
	if len(payload.TimeSeries) == 0 {
		return nil, fmt.Errorf("alphavantage: no data returned for %s", symbol)
	}

	bars := make([]model.OHLCV, 0, len(payload.TimeSeries))
	for date, entry := range payload.TimeSeries {
		ts, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue // malformed date, skip the bar
		}
		bar, err := entry.toBar(ts)
		if err != nil {
			continue
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

func (e avDailyEntry) toBar(ts time.Time) (model.OHLCV, error) {
	o, err := strconv.ParseFloat(e.Open, 64)
	if err != nil {
		return model.OHLCV{}, err
	}
	h, err := strconv.ParseFloat(e.High, 64)
	if err != nil {
		return model.OHLCV{}, err
	}
	l, err := strconv.ParseFloat(e.Low, 64)
	if err != nil {
		return model.OHLCV{}, err
	}
	c, err := strconv.ParseFloat(e.Close, 64)
	if err != nil {
		return model.OHLCV{}, err
	}
	v, err := strconv.ParseFloat(e.Volume, 64)
	if err != nil {
		v = 0 // volume is optional downstream
	}
	return model.OHLCV{Time: ts, Open: o, High: h, Low: l, Close: c, Volume: v}, nil
}

package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PriceWarehouse/internal/model"
)

// RESTFetcher implements Fetcher against a generic JSON bar API
// (GET {base}/api/v1/bars/daily?symbol=...&from=...&to=... returning an array
// of bar objects).
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adj_close"`
	Volume   float64 `json:"volume"`
}

func (f *RESTFetcher) FetchDailyBars(symbol string, start, end time.Time) ([]RawBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&from=%s&to=%s",
		f.BaseURL, url.QueryEscape(symbol),
		start.Format(model.DateFormat), end.Format(model.DateFormat))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}

	bars := make([]RawBar, 0, len(raw))
	for _, rb := range raw {
		d, err := time.ParseInLocation(model.DateFormat, rb.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrMalformedResponse, rb.Date)
		}
		ac := rb.AdjClose
		if ac == 0 {
			ac = rb.Close
		}
		bars = append(bars, RawBar{
			Date:     d,
			Open:     rb.Open,
			High:     rb.High,
			Low:      rb.Low,
			Close:    rb.Close,
			AdjClose: ac,
			Volume:   rb.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

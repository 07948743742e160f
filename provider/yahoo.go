// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/penny-vault/pvratios/data"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance"

// Yahoo fetches historical end-of-day prices from the Yahoo Finance chart
// API. No credentials are required.
type Yahoo struct {
	client  *resty.Client
	limiter *rate.Limiter
	baseURL string
}

type YahooOption func(yahoo *Yahoo)

// WithYahooBaseURL overrides the API endpoint; used by tests.
func WithYahooBaseURL(baseURL string) YahooOption {
	return func(yahoo *Yahoo) {
		yahoo.baseURL = baseURL
	}
}

func NewYahoo(opts ...YahooOption) *Yahoo {
	yahoo := &Yahoo{
		client:  resty.New().SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) pvratios"),
		limiter: rate.NewLimiter(rate.Limit(60.0/61.0), 1),
		baseURL: yahooBaseURL,
	}

	for _, opt := range opts {
		opt(yahoo)
	}

	return yahoo
}

// chartResponse mirrors the subset of the chart API response that price
// history needs.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// PriceHistory fetches daily OHLCV quotes for a ticker over [start, end].
func (yahoo *Yahoo) PriceHistory(ctx context.Context, ticker string, start, end time.Time) (*data.PriceHistory, error) {
	if err := yahoo.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	chart := chartResponse{}
	resp, err := yahoo.client.R().
		SetContext(ctx).
		SetQueryParam("period1", fmt.Sprintf("%d", start.Unix())).
		SetQueryParam("period2", fmt.Sprintf("%d", end.Unix())).
		SetQueryParam("interval", "1d").
		SetResult(&chart).
		Get(fmt.Sprintf("%s/chart/%s", yahoo.baseURL, ticker))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err)
	}

	if err := statusError(resp.StatusCode(), ticker); err != nil {
		return nil, err
	}

	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no price history for ticker %s", ErrDataUnavailable, ticker)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: chart response has no quote block for ticker %s", ErrDataUnavailable, ticker)
	}

	quote := result.Indicators.Quote[0]
	history := &data.PriceHistory{
		Ticker: ticker,
		Quotes: make([]*data.Eod, 0, len(result.Timestamp)),
	}

	for idx, timestamp := range result.Timestamp {
		if idx >= len(quote.Close) {
			break
		}

		history.Quotes = append(history.Quotes, &data.Eod{
			Date:   time.Unix(timestamp, 0).UTC(),
			Ticker: ticker,
			Open:   at(quote.Open, idx),
			High:   at(quote.High, idx),
			Low:    at(quote.Low, idx),
			Close:  at(quote.Close, idx),
			Volume: at(quote.Volume, idx),
		})
	}

	log.Debug().Str("Ticker", ticker).Int("NumQuotes", len(history.Quotes)).Msg("fetched price history")

	return history, nil
}

func at(values []float64, idx int) float64 {
	if idx < len(values) {
		return values[idx]
	}

	return 0
}

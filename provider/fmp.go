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
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/penny-vault/pvratios/data"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const fmpBaseURL = "https://financialmodelingprep.com/api/v3"

// FMP is a Financial Modeling Prep API client. It fetches financial
// statements, company profiles, and real-time quotes. Statement responses
// may optionally be persisted to a local cache directory.
type FMP struct {
	client      *resty.Client
	limiter     *rate.Limiter
	baseURL     string
	cache       *Cache
	periodLimit int
}

type FMPOption func(fmp *FMP)

// WithBaseURL overrides the API endpoint; used by tests.
func WithBaseURL(baseURL string) FMPOption {
	return func(fmp *FMP) {
		fmp.baseURL = baseURL
	}
}

// WithRateLimit sets the maximum number of requests per minute.
func WithRateLimit(perMinute int) FMPOption {
	return func(fmp *FMP) {
		if perMinute > 0 {
			fmp.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/float64(61)), 1)
		}
	}
}

// WithCache persists raw statement responses to a local cache directory.
func WithCache(cache *Cache) FMPOption {
	return func(fmp *FMP) {
		fmp.cache = cache
	}
}

// WithPeriodLimit sets the number of reporting periods requested per
// statement.
func WithPeriodLimit(limit int) FMPOption {
	return func(fmp *FMP) {
		if limit > 0 {
			fmp.periodLimit = limit
		}
	}
}

func NewFMP(apiKey string, opts ...FMPOption) *FMP {
	fmp := &FMP{
		client:      resty.New().SetQueryParam("apikey", apiKey),
		limiter:     rate.NewLimiter(rate.Limit(300.0/61.0), 1),
		baseURL:     fmpBaseURL,
		periodLimit: 10,
	}

	for _, opt := range opts {
		opt(fmp)
	}

	return fmp
}

// Statement fetches one raw financial statement table for a ticker. Row
// labels are the provider's own line-item names in document order; columns
// are reporting periods. Rows that do not carry numeric values (dates,
// filing links) are dropped.
func (fmp *FMP) Statement(ctx context.Context, ticker string, statementType data.StatementType, periodType data.PeriodType) (*data.Table, error) {
	cacheKey := CacheKey(ticker, string(statementType), string(periodType))

	var body []byte
	if fmp.cache != nil {
		if cached, ok := fmp.cache.Get(cacheKey); ok {
			body = cached
		}
	}

	if body == nil {
		if err := fmp.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		url := fmt.Sprintf("%s/%s/%s", fmp.baseURL, statementType, ticker)
		resp, err := fmp.client.R().
			SetContext(ctx).
			SetQueryParam("period", string(periodType)).
			SetQueryParam("limit", fmt.Sprintf("%d", fmp.periodLimit)).
			Get(url)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err)
		}

		if err := statusError(resp.StatusCode(), ticker); err != nil {
			return nil, err
		}

		body = resp.Body()

		if fmp.cache != nil {
			if err := fmp.cache.Put(cacheKey, body); err != nil {
				log.Warn().Err(err).Str("Ticker", ticker).Msg("could not write statement to cache")
			}
		}
	}

	table, err := rawStatementTable(body)
	if err != nil {
		return nil, err
	}

	if table.NumRows() == 0 {
		return nil, fmt.Errorf("%w: no %s data for ticker %s", ErrDataUnavailable, statementType, ticker)
	}

	return table, nil
}

// Profile fetches the company profile for a ticker.
func (fmp *FMP) Profile(ctx context.Context, ticker string) (*data.Profile, error) {
	if err := fmp.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	profiles := make([]*data.Profile, 0, 1)
	resp, err := fmp.client.R().
		SetContext(ctx).
		SetResult(&profiles).
		Get(fmt.Sprintf("%s/profile/%s", fmp.baseURL, ticker))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err)
	}

	if err := statusError(resp.StatusCode(), ticker); err != nil {
		return nil, err
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no profile for ticker %s", ErrDataUnavailable, ticker)
	}

	return profiles[0], nil
}

// Quote fetches a real-time quote snapshot for a ticker.
func (fmp *FMP) Quote(ctx context.Context, ticker string) (*data.Quote, error) {
	if err := fmp.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	quotes := make([]*data.Quote, 0, 1)
	resp, err := fmp.client.R().
		SetContext(ctx).
		SetResult(&quotes).
		Get(fmt.Sprintf("%s/quote/%s", fmp.baseURL, ticker))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err)
	}

	if err := statusError(resp.StatusCode(), ticker); err != nil {
		return nil, err
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no quote for ticker %s", ErrDataUnavailable, ticker)
	}

	return quotes[0], nil
}

// statusError maps an HTTP status to the provider error taxonomy.
func statusError(statusCode int, ticker string) error {
	switch {
	case statusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: provider returned status %d", ErrInvalidAPIKey, statusCode)
	case statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: subscription tier does not include this dataset (status %d)", ErrDataUnavailable, statusCode)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limit exceeded (status %d)", ErrDataUnavailable, statusCode)
	case statusCode >= 300:
		return fmt.Errorf("%w: provider returned status %d for ticker %s", ErrDataUnavailable, statusCode, ticker)
	}

	return nil
}

// rawStatementTable converts a statement response (a JSON array of one
// object per reporting period, newest first) into a raw table. Line items
// keep the provider's document order so normalization can preserve it.
func rawStatementTable(body []byte) (*data.Table, error) {
	entries := make([]map[string]interface{}, 0, 10)
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: could not decode statement response: %s", ErrDataUnavailable, err)
	}

	periods := make([]data.Period, 0, len(entries))
	entryPeriods := make([]data.Period, len(entries))
	for idx, entry := range entries {
		date, _ := entry["date"].(string)
		label, _ := entry["period"].(string)

		period, err := data.ParsePeriod(date, label)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err)
		}

		periods = append(periods, period)
		entryPeriods[idx] = period
	}

	table := data.NewTable(periods)
	for _, label := range orderedKeys(body) {
		for idx, entry := range entries {
			if value, ok := entry[label].(float64); ok {
				table.Set(label, entryPeriods[idx], value)
			}
		}
	}

	return table, nil
}

// orderedKeys returns the field names of the first object in a JSON array
// in document order. Decoding into a map loses key order, which the raw
// table needs to preserve.
func orderedKeys(body []byte) []string {
	decoder := json.NewDecoder(bytes.NewReader(body))

	keys := make([]string, 0, 40)
	depth := 0
	expectKey := false

	for {
		token, err := decoder.Token()
		if err != nil {
			return keys
		}

		if delim, ok := token.(json.Delim); ok {
			switch delim {
			case '{':
				depth++
				if depth == 1 {
					expectKey = true
				}
			case '}':
				depth--
				if depth == 0 {
					return keys
				}

				if depth == 1 {
					expectKey = true
				}
			case ']':
				if depth == 1 {
					expectKey = true
				}
			}

			continue
		}

		if depth != 1 {
			continue
		}

		if expectKey {
			if key, ok := token.(string); ok {
				keys = append(keys, key)
			}
		}

		expectKey = !expectKey
	}
}

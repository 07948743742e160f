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
package data

import (
	"math"
	"time"
)

// Eod is a single end-of-day price observation from the price history
// provider.
type Eod struct {
	Date   time.Time `json:"date"`
	Ticker string    `json:"ticker"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceHistory is an OHLCV time series for a single ticker, ordered by date.
type PriceHistory struct {
	Ticker string
	Quotes []*Eod
}

// CloseOn returns the last close on or before the given date, or NaN when no
// quote exists before that date. Statement period ends frequently fall on
// weekends or holidays, so the nearest prior trading day is used.
func (history *PriceHistory) CloseOn(date time.Time) float64 {
	closePrice := math.NaN()
	for _, quote := range history.Quotes {
		if quote.Date.After(date) {
			break
		}

		closePrice = quote.Close
	}

	return closePrice
}

// CloseSeries returns closing prices aligned to a set of statement periods,
// taking the nearest prior trading day for each period end.
func (history *PriceHistory) CloseSeries(periods []Period) Series {
	series := NewSeries(periods)
	for idx, period := range periods {
		series.Values[idx] = history.CloseOn(period.End)
	}

	return series
}

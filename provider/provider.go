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

// Package provider fetches raw statement, profile, quote, and price history
// data from remote market-data APIs. Each call makes a single attempt;
// transient failures surface to the caller as ErrDataUnavailable.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/penny-vault/pvratios/data"
)

var (
	// ErrDataUnavailable indicates the provider rejected the request or has
	// no data for the requested ticker and period: rate limit exceeded,
	// unknown ticker, or insufficient subscription tier.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInvalidAPIKey indicates the provider rejected the configured
	// credentials outright.
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// StatementSource fetches raw (un-normalized) financial statement tables
// along with company profiles and quotes.
type StatementSource interface {
	Statement(ctx context.Context, ticker string, statementType data.StatementType, periodType data.PeriodType) (*data.Table, error)
	Profile(ctx context.Context, ticker string) (*data.Profile, error)
	Quote(ctx context.Context, ticker string) (*data.Quote, error)
}

// PriceSource fetches historical OHLCV price series.
type PriceSource interface {
	PriceHistory(ctx context.Context, ticker string, start, end time.Time) (*data.PriceHistory, error)
}

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

// Package toolkit orchestrates fetch, normalize, and ratio computation
// across a set of tickers. Tickers are processed sequentially and results
// merge into multi-index tables with the ticker outermost; a fetch failure
// for one ticker never aborts collection for the rest. A rejected API key
// is the exception: it fails every ticker alike, so collection stops
// immediately instead of producing an all-NaN result.
package toolkit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/google/uuid"
	"github.com/penny-vault/pvratios/data"
	"github.com/penny-vault/pvratios/formula"
	"github.com/penny-vault/pvratios/normalize"
	"github.com/penny-vault/pvratios/provider"
	"github.com/penny-vault/pvratios/ratios"
	"github.com/rs/zerolog/log"
)

var (
	// ErrMalformedInput indicates a caller-supplied external dataset does not
	// have the expected shape: unknown ticker, missing statement table, or an
	// empty period index.
	ErrMalformedInput = errors.New("malformed external dataset")
)

// Toolkit aggregates financial statements and computes ratio tables for a
// fixed set of tickers over a date range. Statements are fetched once and
// memoized for the toolkit's lifetime unless explicitly refreshed.
type Toolkit struct {
	tickers    []string
	start      time.Time
	end        time.Time
	periodType data.PeriodType

	statements provider.StatementSource
	prices     provider.PriceSource
	mappings   map[data.StatementType]*normalize.Mapping
	registry   *formula.Registry

	memo      *haxmap.Map[string, *data.Statements]
	priceMemo *haxmap.Map[string, data.Series]
	external  map[string]*data.Statements
}

type Option func(toolkit *Toolkit) error

// WithSources sets the remote statement and price providers. The price
// source may be nil; valuation ratios then compute to NaN.
func WithSources(statements provider.StatementSource, prices provider.PriceSource) Option {
	return func(toolkit *Toolkit) error {
		toolkit.statements = statements
		toolkit.prices = prices
		return nil
	}
}

// WithDateRange restricts collected periods to [start, end]. Zero bounds
// leave that side unbounded.
func WithDateRange(start, end time.Time) Option {
	return func(toolkit *Toolkit) error {
		toolkit.start = start
		toolkit.end = end
		return nil
	}
}

// WithPeriodType selects annual or quarterly statements. Annual is the
// default.
func WithPeriodType(periodType data.PeriodType) Option {
	return func(toolkit *Toolkit) error {
		toolkit.periodType = periodType
		return nil
	}
}

// WithCustomRatios attaches user-defined ratio expressions.
func WithCustomRatios(registry *formula.Registry) Option {
	return func(toolkit *Toolkit) error {
		toolkit.registry = registry
		return nil
	}
}

// WithMapping replaces the embedded normalization table for one statement
// type, enabling arbitrary third-party data vocabularies.
func WithMapping(mapping *normalize.Mapping) Option {
	return func(toolkit *Toolkit) error {
		toolkit.mappings[mapping.StatementType()] = mapping
		return nil
	}
}

// WithExternalData runs the toolkit against caller-supplied statement
// tables instead of a remote provider. Each dataset must belong to one of
// the toolkit's tickers and carry three aligned statement tables; anything
// else fails construction with ErrMalformedInput.
func WithExternalData(datasets map[string]*data.Statements) Option {
	return func(toolkit *Toolkit) error {
		if len(datasets) == 0 {
			return fmt.Errorf("%w: empty dataset map", ErrMalformedInput)
		}

		known := make(map[string]bool, len(toolkit.tickers))
		for _, ticker := range toolkit.tickers {
			known[ticker] = true
		}

		for ticker, statements := range datasets {
			if !known[ticker] {
				return fmt.Errorf("%w: dataset ticker %s is not in the toolkit ticker set", ErrMalformedInput, ticker)
			}

			if err := validateStatements(ticker, statements); err != nil {
				return err
			}
		}

		toolkit.external = datasets
		return nil
	}
}

func validateStatements(ticker string, statements *data.Statements) error {
	if statements == nil {
		return fmt.Errorf("%w: nil statements for ticker %s", ErrMalformedInput, ticker)
	}

	var periods []data.Period
	for _, statementType := range data.StatementTypes {
		table := statements.Statement(statementType)
		if table == nil {
			return fmt.Errorf("%w: ticker %s is missing its %s", ErrMalformedInput, ticker, statementType)
		}

		if len(table.Periods()) == 0 {
			return fmt.Errorf("%w: %s for ticker %s has no periods", ErrMalformedInput, statementType, ticker)
		}

		if periods == nil {
			periods = table.Periods()
			continue
		}

		if len(periods) != len(table.Periods()) {
			return fmt.Errorf("%w: statement tables for ticker %s do not share a period index", ErrMalformedInput, ticker)
		}

		for idx, period := range table.Periods() {
			if !period.Equal(periods[idx]) {
				return fmt.Errorf("%w: statement tables for ticker %s do not share a period index", ErrMalformedInput, ticker)
			}
		}
	}

	return nil
}

// New creates a toolkit over a fixed ticker set. A statement source is
// required unless external data is supplied.
func New(tickers []string, opts ...Option) (*Toolkit, error) {
	if len(tickers) == 0 {
		return nil, errors.New("toolkit requires at least one ticker")
	}

	toolkit := &Toolkit{
		tickers:    tickers,
		periodType: data.Annual,
		mappings:   make(map[data.StatementType]*normalize.Mapping, len(data.StatementTypes)),
		memo:       haxmap.New[string, *data.Statements](),
		priceMemo:  haxmap.New[string, data.Series](),
	}

	for _, opt := range opts {
		if err := opt(toolkit); err != nil {
			return nil, err
		}
	}

	if toolkit.statements == nil && toolkit.external == nil {
		return nil, errors.New("toolkit requires a statement source or external data")
	}

	for _, statementType := range data.StatementTypes {
		if _, ok := toolkit.mappings[statementType]; ok {
			continue
		}

		mapping, err := normalize.DefaultMapping(statementType)
		if err != nil {
			return nil, err
		}

		toolkit.mappings[statementType] = mapping
	}

	return toolkit, nil
}

// Tickers returns the toolkit's ticker set in construction order.
func (toolkit *Toolkit) Tickers() []string {
	return toolkit.tickers
}

// Refresh drops the memoized statements and prices for a ticker so the next
// access re-fetches.
func (toolkit *Toolkit) Refresh(ticker string) {
	toolkit.memo.Del(ticker)
	toolkit.priceMemo.Del(ticker)
}

// Statements returns the normalized statement bundle for one ticker,
// clipped to the toolkit date range. Results are memoized.
func (toolkit *Toolkit) Statements(ctx context.Context, ticker string) (*data.Statements, error) {
	if cached, ok := toolkit.memo.Get(ticker); ok {
		return cached, nil
	}

	statements, err := toolkit.fetchStatements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	toolkit.memo.Set(ticker, statements)
	return statements, nil
}

func (toolkit *Toolkit) fetchStatements(ctx context.Context, ticker string) (*data.Statements, error) {
	if toolkit.external != nil {
		statements, ok := toolkit.external[ticker]
		if !ok {
			return nil, fmt.Errorf("%w: no external dataset for ticker %s", provider.ErrDataUnavailable, ticker)
		}

		return toolkit.normalizeAll(ticker, statements)
	}

	raw := &data.Statements{Ticker: ticker}
	for _, statementType := range data.StatementTypes {
		table, err := toolkit.statements.Statement(ctx, ticker, statementType, toolkit.periodType)
		if err != nil {
			return nil, err
		}

		switch statementType {
		case data.BalanceSheet:
			raw.BalanceSheet = table
		case data.IncomeStatement:
			raw.IncomeStatement = table
		case data.CashFlow:
			raw.CashFlow = table
		}
	}

	return toolkit.normalizeAll(ticker, raw)
}

func (toolkit *Toolkit) normalizeAll(ticker string, raw *data.Statements) (*data.Statements, error) {
	clipStart := data.Period{End: toolkit.start}
	clipEnd := data.Period{End: toolkit.end}

	normalized := &data.Statements{Ticker: ticker}
	for _, statementType := range data.StatementTypes {
		table := raw.Statement(statementType)
		if table == nil {
			return nil, fmt.Errorf("%w: ticker %s is missing its %s", provider.ErrDataUnavailable, ticker, statementType)
		}

		clipped := toolkit.mappings[statementType].Apply(table).Clip(clipStart, clipEnd)
		switch statementType {
		case data.BalanceSheet:
			normalized.BalanceSheet = clipped
		case data.IncomeStatement:
			normalized.IncomeStatement = clipped
		case data.CashFlow:
			normalized.CashFlow = clipped
		}
	}

	return normalized, nil
}

// BalanceSheet returns the normalized balance sheet for one ticker.
func (toolkit *Toolkit) BalanceSheet(ctx context.Context, ticker string) (*data.Table, error) {
	statements, err := toolkit.Statements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return statements.BalanceSheet, nil
}

// IncomeStatement returns the normalized income statement for one ticker.
func (toolkit *Toolkit) IncomeStatement(ctx context.Context, ticker string) (*data.Table, error) {
	statements, err := toolkit.Statements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return statements.IncomeStatement, nil
}

// CashFlow returns the normalized cash flow statement for one ticker.
func (toolkit *Toolkit) CashFlow(ctx context.Context, ticker string) (*data.Table, error) {
	statements, err := toolkit.Statements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return statements.CashFlow, nil
}

// CollectStatements fetches one statement type across every ticker and
// merges the tables ticker-outermost. A ticker whose fetch fails
// contributes an empty table and collection continues; a rejected API key
// aborts with provider.ErrInvalidAPIKey.
func (toolkit *Toolkit) CollectStatements(ctx context.Context, statementType data.StatementType) (*data.MultiTable, error) {
	multi := data.NewMultiTable()
	for _, ticker := range toolkit.tickers {
		statements, err := toolkit.Statements(ctx, ticker)
		if err != nil {
			if errors.Is(err, provider.ErrInvalidAPIKey) {
				return nil, err
			}

			log.Warn().Err(err).Str("Ticker", ticker).Msg("could not fetch statements")
			multi.Add(ticker, data.NewTable(nil))
			continue
		}

		multi.Add(ticker, statements.Statement(statementType))
	}

	return multi, nil
}

// inputs assembles the ratio inputs for one ticker: normalized statements
// plus period-end share prices when a price source is configured.
func (toolkit *Toolkit) inputs(ctx context.Context, ticker string) (ratios.Inputs, error) {
	statements, err := toolkit.Statements(ctx, ticker)
	if err != nil {
		return ratios.Inputs{}, err
	}

	periods := statements.IncomeStatement.Periods()

	return ratios.Inputs{
		Balance:  statements.BalanceSheet,
		Income:   statements.IncomeStatement,
		CashFlow: statements.CashFlow,
		Price:    toolkit.priceSeries(ctx, ticker, periods),
	}, nil
}

// priceSeries returns period-end closing prices for a ticker. When no price
// source is configured or the fetch fails the series is all NaN; valuation
// ratios then propagate NaN instead of failing the collection.
func (toolkit *Toolkit) priceSeries(ctx context.Context, ticker string, periods []data.Period) data.Series {
	if toolkit.prices == nil || len(periods) == 0 {
		return data.NewSeries(periods)
	}

	if cached, ok := toolkit.priceMemo.Get(ticker); ok {
		return alignSeries(cached, periods)
	}

	// pad the fetch window so the first period end has a prior trading day
	start := periods[0].End.AddDate(0, 0, -14)
	end := periods[len(periods)-1].End

	history, err := toolkit.prices.PriceHistory(ctx, ticker, start, end)
	if err != nil {
		log.Warn().Err(err).Str("Ticker", ticker).Msg("could not fetch price history")
		return data.NewSeries(periods)
	}

	series := history.CloseSeries(periods)
	toolkit.priceMemo.Set(ticker, series)

	return series
}

func alignSeries(series data.Series, periods []data.Period) data.Series {
	aligned := data.NewSeries(periods)
	for idx, period := range periods {
		aligned.Values[idx] = series.At(period)
	}

	return aligned
}

// CollectRatios computes every ratio in a category for every ticker and
// merges the results ticker-outermost. Ticker order is preserved even when
// a ticker's fetch fails; failed tickers contribute all-NaN rows. A
// rejected API key aborts with provider.ErrInvalidAPIKey.
func (toolkit *Toolkit) CollectRatios(ctx context.Context, category ratios.Category) (*data.MultiTable, *data.RunSummary, error) {
	summary := &data.RunSummary{
		RunID:      uuid.New(),
		StartTime:  time.Now(),
		Category:   string(category),
		NumTickers: len(toolkit.tickers),
	}

	definitions := ratios.Catalog[category]

	multi := data.NewMultiTable()
	for _, ticker := range toolkit.tickers {
		in, err := toolkit.inputs(ctx, ticker)
		if err != nil {
			if errors.Is(err, provider.ErrInvalidAPIKey) {
				return nil, nil, err
			}

			log.Warn().Err(err).Str("Ticker", ticker).Str("Category", string(category)).Msg("could not collect ratios")
			summary.NumFailed++
			multi.Add(ticker, emptyRatioTable(definitions))
			continue
		}

		table := data.NewTable(in.Income.Periods())
		for _, definition := range definitions {
			series := definition.Compute(in)
			table.SetRow(definition.Name, series)
			summary.NumObservations += countObservations(series)
		}

		multi.Add(ticker, table)
	}

	summary.EndTime = time.Now()

	return multi, summary, nil
}

// emptyRatioTable holds one all-NaN row per ratio so failed tickers still
// render in merged output.
func emptyRatioTable(definitions []ratios.Definition) *data.Table {
	table := data.NewTable(nil)
	for _, definition := range definitions {
		table.SetRow(definition.Name, data.Series{})
	}

	return table
}

func countObservations(series data.Series) int {
	count := 0
	for _, value := range series.Values {
		if !math.IsNaN(value) {
			count++
		}
	}

	return count
}

// Ratio computes a single named catalog ratio for every ticker.
func (toolkit *Toolkit) Ratio(ctx context.Context, name string) (*data.MultiTable, error) {
	definition, ok := ratios.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown ratio %q", name)
	}

	multi := data.NewMultiTable()
	for _, ticker := range toolkit.tickers {
		in, err := toolkit.inputs(ctx, ticker)
		if err != nil {
			if errors.Is(err, provider.ErrInvalidAPIKey) {
				return nil, err
			}

			log.Warn().Err(err).Str("Ticker", ticker).Str("Ratio", name).Msg("could not compute ratio")
			multi.Add(ticker, emptyRatioTable([]ratios.Definition{definition}))
			continue
		}

		table := data.NewTable(in.Income.Periods())
		table.SetRow(definition.Name, definition.Compute(in))
		multi.Add(ticker, table)
	}

	return multi, nil
}

// CollectCustomRatios evaluates the attached custom ratio registry for
// every ticker. Resolution failures (unknown names, cycles) abort the
// collection since the definitions are wrong for every ticker alike.
func (toolkit *Toolkit) CollectCustomRatios(ctx context.Context) (*data.MultiTable, error) {
	if toolkit.registry == nil || toolkit.registry.Len() == 0 {
		return nil, errors.New("no custom ratios defined")
	}

	multi := data.NewMultiTable()
	for _, ticker := range toolkit.tickers {
		statements, err := toolkit.Statements(ctx, ticker)
		if err != nil {
			if errors.Is(err, provider.ErrInvalidAPIKey) {
				return nil, err
			}

			log.Warn().Err(err).Str("Ticker", ticker).Msg("could not collect custom ratios")
			multi.Add(ticker, data.NewTable(nil))
			continue
		}

		table, err := toolkit.registry.Evaluate(statements)
		if err != nil {
			return nil, err
		}

		multi.Add(ticker, table)
	}

	return multi, nil
}

// DuPont returns the 3-factor DuPont decomposition for one ticker.
func (toolkit *Toolkit) DuPont(ctx context.Context, ticker string) (*data.Table, error) {
	statements, err := toolkit.Statements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return ratios.DuPont(statements.IncomeStatement, statements.BalanceSheet), nil
}

// ExtendedDuPont returns the 5-factor DuPont decomposition for one ticker.
func (toolkit *Toolkit) ExtendedDuPont(ctx context.Context, ticker string) (*data.Table, error) {
	statements, err := toolkit.Statements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return ratios.ExtendedDuPont(statements.IncomeStatement, statements.BalanceSheet), nil
}

// AltmanZ returns the Altman Z-score table for one ticker.
func (toolkit *Toolkit) AltmanZ(ctx context.Context, ticker string) (*data.Table, error) {
	in, err := toolkit.inputs(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return ratios.AltmanZ(in.Income, in.Balance, in.Price), nil
}

// Profile fetches the company profile for one ticker.
func (toolkit *Toolkit) Profile(ctx context.Context, ticker string) (*data.Profile, error) {
	if toolkit.statements == nil {
		return nil, fmt.Errorf("%w: no remote source in external data mode", provider.ErrDataUnavailable)
	}

	return toolkit.statements.Profile(ctx, ticker)
}

// Quote fetches a real-time quote for one ticker.
func (toolkit *Toolkit) Quote(ctx context.Context, ticker string) (*data.Quote, error) {
	if toolkit.statements == nil {
		return nil, fmt.Errorf("%w: no remote source in external data mode", provider.ErrDataUnavailable)
	}

	return toolkit.statements.Quote(ctx, ticker)
}

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
package toolkit_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvratios/data"
	"github.com/penny-vault/pvratios/formula"
	"github.com/penny-vault/pvratios/provider"
	"github.com/penny-vault/pvratios/ratios"
	"github.com/penny-vault/pvratios/toolkit"
)

var _ = Describe("Toolkit", func() {
	var (
		ctx     context.Context
		source  *fakeSource
		periods []data.Period
	)

	BeforeEach(func() {
		ctx = context.Background()
		source = newFakeSource()
		periods = annualPeriods(2021, 2022, 2023)

		rawStatements(source, "AAPL", periods, 100, 120, 150)
		rawStatements(source, "MSFT", periods, 200, 220, 250)
	})

	Describe("New", func() {
		It("requires at least one ticker", func() {
			_, err := toolkit.New(nil, toolkit.WithSources(source, nil))
			Expect(err).To(HaveOccurred())
		})

		It("requires a statement source or external data", func() {
			_, err := toolkit.New([]string{"AAPL"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Statements", func() {
		It("normalizes provider labels onto the canonical vocabulary", func() {
			myToolkit, err := toolkit.New([]string{"AAPL"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			statements, err := myToolkit.Statements(ctx, "AAPL")
			Expect(err).NotTo(HaveOccurred())
			Expect(statements.IncomeStatement.HasRow("Revenue")).To(BeTrue())
			Expect(statements.IncomeStatement.Row("Revenue").Values).To(Equal([]float64{100, 120, 150}))
		})

		It("memoizes statement fetches", func() {
			myToolkit, err := toolkit.New([]string{"AAPL"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			_, err = myToolkit.Statements(ctx, "AAPL")
			Expect(err).NotTo(HaveOccurred())
			Expect(source.fetches).To(Equal(3))

			_, err = myToolkit.Statements(ctx, "AAPL")
			Expect(err).NotTo(HaveOccurred())
			Expect(source.fetches).To(Equal(3))
		})

		It("re-fetches after an explicit refresh", func() {
			myToolkit, err := toolkit.New([]string{"AAPL"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			_, err = myToolkit.Statements(ctx, "AAPL")
			Expect(err).NotTo(HaveOccurred())

			myToolkit.Refresh("AAPL")

			_, err = myToolkit.Statements(ctx, "AAPL")
			Expect(err).NotTo(HaveOccurred())
			Expect(source.fetches).To(Equal(6))
		})

		It("clips periods to the configured date range", func() {
			myToolkit, err := toolkit.New([]string{"AAPL"},
				toolkit.WithSources(source, nil),
				toolkit.WithDateRange(periods[1].End, periods[2].End))
			Expect(err).NotTo(HaveOccurred())

			statements, err := myToolkit.Statements(ctx, "AAPL")
			Expect(err).NotTo(HaveOccurred())
			Expect(statements.IncomeStatement.Periods()).To(HaveLen(2))
		})
	})

	Describe("CollectStatements", func() {
		It("continues past a ticker whose fetch fails", func() {
			source.fail["AAPL"] = true

			myToolkit, err := toolkit.New([]string{"AAPL", "MSFT"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			multi, err := myToolkit.CollectStatements(ctx, data.IncomeStatement)
			Expect(err).NotTo(HaveOccurred())
			Expect(multi.Tickers()).To(Equal([]string{"AAPL", "MSFT"}))
			Expect(multi.Table("MSFT").Row("Revenue").Values).To(Equal([]float64{200, 220, 250}))
		})

		It("aborts the run when the provider rejects the api key", func() {
			source.invalidKey = true

			myToolkit, err := toolkit.New([]string{"AAPL", "MSFT"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			_, err = myToolkit.CollectStatements(ctx, data.IncomeStatement)
			Expect(err).To(MatchError(provider.ErrInvalidAPIKey))
		})
	})

	Describe("CollectRatios", func() {
		It("merges results with tickers outermost in construction order", func() {
			myToolkit, err := toolkit.New([]string{"AAPL", "MSFT"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			multi, summary, err := myToolkit.CollectRatios(ctx, ratios.Liquidity)
			Expect(err).NotTo(HaveOccurred())
			Expect(multi.Tickers()).To(Equal([]string{"AAPL", "MSFT"}))
			Expect(summary.NumFailed).To(Equal(0))
			Expect(summary.NumObservations).To(BeNumerically(">", 0))

			aapl := multi.Table("AAPL")
			Expect(aapl.Row("Current Ratio").Values).To(Equal([]float64{2, 2, 2}))
		})

		It("preserves ticker order when one ticker's fetch fails", func() {
			source.fail["AAPL"] = true

			myToolkit, err := toolkit.New([]string{"AAPL", "MSFT"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			multi, summary, err := myToolkit.CollectRatios(ctx, ratios.Liquidity)
			Expect(err).NotTo(HaveOccurred())
			Expect(multi.Tickers()).To(Equal([]string{"AAPL", "MSFT"}))
			Expect(summary.NumFailed).To(Equal(1))

			// the failed ticker still renders one row per ratio
			aapl := multi.Table("AAPL")
			Expect(aapl.NumRows()).To(Equal(len(ratios.Catalog[ratios.Liquidity])))

			msft := multi.Table("MSFT")
			Expect(msft.Row("Current Ratio").Values).To(Equal([]float64{2, 2, 2}))
		})

		It("aborts the run when the provider rejects the api key", func() {
			source.invalidKey = true

			myToolkit, err := toolkit.New([]string{"AAPL", "MSFT"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			_, _, err = myToolkit.CollectRatios(ctx, ratios.Liquidity)
			Expect(err).To(MatchError(provider.ErrInvalidAPIKey))
		})

		It("computes valuation ratios as NaN without a price source", func() {
			myToolkit, err := toolkit.New([]string{"AAPL"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			multi, _, err := myToolkit.CollectRatios(ctx, ratios.Valuation)
			Expect(err).NotTo(HaveOccurred())
			pe := multi.Table("AAPL").Row("Price to Earnings")
			for _, value := range pe.Values {
				Expect(math.IsNaN(value)).To(BeTrue())
			}
		})
	})

	Describe("Ratio", func() {
		It("computes a single named ratio across tickers", func() {
			myToolkit, err := toolkit.New([]string{"AAPL", "MSFT"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			multi, err := myToolkit.Ratio(ctx, "Net Margin")
			Expect(err).NotTo(HaveOccurred())
			Expect(multi.Table("AAPL").Row("Net Margin").Values[0]).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("aborts the run when the provider rejects the api key", func() {
			source.invalidKey = true

			myToolkit, err := toolkit.New([]string{"AAPL"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			_, err = myToolkit.Ratio(ctx, "Net Margin")
			Expect(err).To(MatchError(provider.ErrInvalidAPIKey))
		})

		It("rejects unknown ratio names", func() {
			myToolkit, err := toolkit.New([]string{"AAPL"}, toolkit.WithSources(source, nil))
			Expect(err).NotTo(HaveOccurred())

			_, err = myToolkit.Ratio(ctx, "Nonexistent Ratio")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CollectCustomRatios", func() {
		It("evaluates custom definitions against normalized statements", func() {
			registry := formula.NewRegistry()
			registry.Define("Net Profit Margin", "Net Income / Revenue")

			myToolkit, err := toolkit.New([]string{"AAPL"},
				toolkit.WithSources(source, nil),
				toolkit.WithCustomRatios(registry))
			Expect(err).NotTo(HaveOccurred())

			multi, err := myToolkit.CollectCustomRatios(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(multi.Table("AAPL").Row("Net Profit Margin").Values[0]).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("aborts the run when the provider rejects the api key", func() {
			source.invalidKey = true

			registry := formula.NewRegistry()
			registry.Define("Net Profit Margin", "Net Income / Revenue")

			myToolkit, err := toolkit.New([]string{"AAPL"},
				toolkit.WithSources(source, nil),
				toolkit.WithCustomRatios(registry))
			Expect(err).NotTo(HaveOccurred())

			_, err = myToolkit.CollectCustomRatios(ctx)
			Expect(err).To(MatchError(provider.ErrInvalidAPIKey))
		})

		It("surfaces unresolved references", func() {
			registry := formula.NewRegistry()
			registry.Define("Broken", "Not A Real Item / Revenue")

			myToolkit, err := toolkit.New([]string{"AAPL"},
				toolkit.WithSources(source, nil),
				toolkit.WithCustomRatios(registry))
			Expect(err).NotTo(HaveOccurred())

			_, err = myToolkit.CollectCustomRatios(ctx)
			Expect(err).To(MatchError(formula.ErrUnresolvedReference))
		})
	})

	Describe("External data mode", func() {
		var datasets map[string]*data.Statements

		BeforeEach(func() {
			income := data.NewTable(periods)
			income.SetRow("Revenue", seriesOf(periods, 100, 120, 150))
			income.SetRow("Net Income", seriesOf(periods, 10, 12, 15))

			balance := data.NewTable(periods)
			balance.SetRow("Total Current Assets", seriesOf(periods, 100, 100, 100))
			balance.SetRow("Total Current Liabilities", seriesOf(periods, 50, 50, 50))

			datasets = map[string]*data.Statements{
				"AAPL": {
					Ticker:          "AAPL",
					BalanceSheet:    balance,
					IncomeStatement: income,
					CashFlow:        data.NewTable(periods),
				},
			}
		})

		It("collects ratios from caller-supplied tables", func() {
			myToolkit, err := toolkit.New([]string{"AAPL"}, toolkit.WithExternalData(datasets))
			Expect(err).NotTo(HaveOccurred())

			multi, summary, err := myToolkit.CollectRatios(ctx, ratios.Liquidity)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.NumFailed).To(Equal(0))
			Expect(multi.Table("AAPL").Row("Current Ratio").Values).To(Equal([]float64{2, 2, 2}))
		})

		It("rejects datasets for tickers outside the toolkit set", func() {
			_, err := toolkit.New([]string{"MSFT"}, toolkit.WithExternalData(datasets))
			Expect(err).To(MatchError(toolkit.ErrMalformedInput))
		})

		It("rejects datasets missing a statement table", func() {
			datasets["AAPL"].CashFlow = nil

			_, err := toolkit.New([]string{"AAPL"}, toolkit.WithExternalData(datasets))
			Expect(err).To(MatchError(toolkit.ErrMalformedInput))
		})

		It("rejects statement tables with mismatched period indexes", func() {
			datasets["AAPL"].CashFlow = data.NewTable(annualPeriods(1999, 2000, 2001))

			_, err := toolkit.New([]string{"AAPL"}, toolkit.WithExternalData(datasets))
			Expect(err).To(MatchError(toolkit.ErrMalformedInput))
		})

		It("rejects an empty dataset map", func() {
			_, err := toolkit.New([]string{"AAPL"}, toolkit.WithExternalData(nil))
			Expect(err).To(MatchError(toolkit.ErrMalformedInput))
		})
	})
})

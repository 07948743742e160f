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
package ratios_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvratios/data"
	"github.com/penny-vault/pvratios/ratios"
)

var _ = Describe("Liquidity", func() {
	var (
		periods []data.Period
		balance *data.Table
	)

	BeforeEach(func() {
		periods = annualPeriods(2023)
		balance = data.NewTable(periods)
	})

	It("computes a current ratio of 2.0 for assets 100 and liabilities 50", func() {
		balance.SetRow("Total Current Assets", seriesOf(periods, 100))
		balance.SetRow("Total Current Liabilities", seriesOf(periods, 50))

		current := ratios.CurrentRatio(balance)
		Expect(current.Values[0]).To(Equal(2.0))
	})

	It("yields NaN when current liabilities are zero", func() {
		balance.SetRow("Total Current Assets", seriesOf(periods, 100))
		balance.SetRow("Total Current Liabilities", seriesOf(periods, 0))

		current := ratios.CurrentRatio(balance)
		Expect(math.IsNaN(current.Values[0])).To(BeTrue())
	})

	It("yields NaN when a line item is missing entirely", func() {
		balance.SetRow("Total Current Assets", seriesOf(periods, 100))

		current := ratios.CurrentRatio(balance)
		Expect(math.IsNaN(current.Values[0])).To(BeTrue())
	})
})

var _ = Describe("Profitability", func() {
	var (
		periods []data.Period
		income  *data.Table
		balance *data.Table
	)

	BeforeEach(func() {
		periods = annualPeriods(2022, 2023)
		income = data.NewTable(periods)
		balance = data.NewTable(periods)
	})

	It("computes net margin per period", func() {
		income.SetRow("Revenue", seriesOf(periods, 1000, 1200))
		income.SetRow("Net Income", seriesOf(periods, 100, 180))

		margin := ratios.NetMargin(income)
		Expect(margin.Values[0]).To(BeNumerically("~", 0.1, 1e-12))
		Expect(margin.Values[1]).To(BeNumerically("~", 0.15, 1e-12))
	})

	It("computes return on equity against average equity", func() {
		income.SetRow("Net Income", seriesOf(periods, 100, 120))
		balance.SetRow("Total Shareholder Equity", seriesOf(periods, 400, 600))

		roe := ratios.ReturnOnEquity(income, balance)
		// first period has no prior balance, so equity is not averaged
		Expect(roe.Values[0]).To(BeNumerically("~", 0.25, 1e-12))
		Expect(roe.Values[1]).To(BeNumerically("~", 0.24, 1e-12))
	})
})

var _ = Describe("Growth", func() {
	It("computes revenue growth with a NaN first slot", func() {
		periods := annualPeriods(2021, 2022, 2023)
		income := data.NewTable(periods)
		income.SetRow("Revenue", seriesOf(periods, 100, 120, 150))

		growth := ratios.RevenueGrowth(income)
		Expect(math.IsNaN(growth.Values[0])).To(BeTrue())
		Expect(growth.Values[1]).To(BeNumerically("~", 0.2, 1e-12))
		Expect(growth.Values[2]).To(BeNumerically("~", 0.25, 1e-12))
	})
})

var _ = Describe("Valuation", func() {
	var (
		periods []data.Period
		income  *data.Table
		price   data.Series
	)

	BeforeEach(func() {
		periods = annualPeriods(2023)
		income = data.NewTable(periods)
		price = seriesOf(periods, 30)
	})

	It("computes price to earnings from period-end prices", func() {
		income.SetRow("Net Income", seriesOf(periods, 500))
		income.SetRow("Weighted Average Shares", seriesOf(periods, 100))

		pe := ratios.PriceToEarnings(income, price)
		// eps = 5, price 30
		Expect(pe.Values[0]).To(BeNumerically("~", 6.0, 1e-12))
	})

	It("propagates NaN prices", func() {
		income.SetRow("Net Income", seriesOf(periods, 500))
		income.SetRow("Weighted Average Shares", seriesOf(periods, 100))

		pe := ratios.PriceToEarnings(income, data.NewSeries(periods))
		Expect(math.IsNaN(pe.Values[0])).To(BeTrue())
	})
})

var _ = Describe("Catalog", func() {
	It("lists every category", func() {
		Expect(ratios.Categories).To(HaveLen(6))
		for _, category := range ratios.Categories {
			Expect(ratios.Catalog[category]).NotTo(BeEmpty())
		}
	})

	It("looks up a definition by name", func() {
		definition, ok := ratios.Lookup("Current Ratio")
		Expect(ok).To(BeTrue())
		Expect(definition.Name).To(Equal("Current Ratio"))
	})

	It("never panics on empty inputs", func() {
		periods := annualPeriods(2023)
		in := ratios.Inputs{
			Balance:  data.NewTable(periods),
			Income:   data.NewTable(periods),
			CashFlow: data.NewTable(periods),
			Price:    data.NewSeries(periods),
		}

		for _, category := range ratios.Categories {
			for _, definition := range ratios.Catalog[category] {
				series := definition.Compute(in)
				Expect(series.Len()).To(Equal(1))
				Expect(math.IsNaN(series.Values[0])).To(BeTrue())
			}
		}
	})
})

var _ = Describe("DuPont", func() {
	It("recombines the three factors into return on equity", func() {
		periods := annualPeriods(2023)

		income := data.NewTable(periods)
		income.SetRow("Revenue", seriesOf(periods, 1000))
		income.SetRow("Net Income", seriesOf(periods, 100))

		balance := data.NewTable(periods)
		balance.SetRow("Total Assets", seriesOf(periods, 2000))
		balance.SetRow("Total Shareholder Equity", seriesOf(periods, 500))

		dupont := ratios.DuPont(income, balance)
		roe := dupont.Row("Return on Equity").Values[0]
		Expect(roe).To(BeNumerically("~", 0.2, 1e-12))
	})
})

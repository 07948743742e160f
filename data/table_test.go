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
package data_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvratios/data"
)

var _ = Describe("Table", func() {
	var periods []data.Period

	BeforeEach(func() {
		periods = annualPeriods(2021, 2022, 2023)
	})

	It("sorts periods chronologically regardless of input order", func() {
		reversed := annualPeriods(2023, 2021, 2022)
		table := data.NewTable(reversed)
		Expect(table.Periods()[0].FiscalYear).To(Equal(2021))
		Expect(table.Periods()[2].FiscalYear).To(Equal(2023))
	})

	It("keeps row labels in insertion order", func() {
		table := data.NewTable(periods)
		table.SetRow("Revenue", seriesOf(periods, 1, 2, 3))
		table.SetRow("Net Income", seriesOf(periods, 4, 5, 6))
		table.SetRow("Gross Profit", seriesOf(periods, 7, 8, 9))
		Expect(table.Labels()).To(Equal([]string{"Revenue", "Net Income", "Gross Profit"}))
	})

	It("returns an all-NaN series for a missing line item", func() {
		table := data.NewTable(periods)
		row := table.Row("Revenue")
		Expect(row.Len()).To(Equal(3))
		for _, value := range row.Values {
			Expect(math.IsNaN(value)).To(BeTrue())
		}
	})

	Describe("MergeRow", func() {
		It("fills NaN cells without overwriting existing values", func() {
			table := data.NewTable(periods)
			table.Set("Revenue", periods[0], 100)

			table.MergeRow("Revenue", seriesOf(periods, 999, 120, 150))
			row := table.Row("Revenue")
			Expect(row.Values).To(Equal([]float64{100, 120, 150}))
		})
	})

	Describe("RenameRow", func() {
		It("rewrites the label in place", func() {
			table := data.NewTable(periods)
			table.SetRow("netIncome", seriesOf(periods, 1, 2, 3))
			table.RenameRow("netIncome", "Net Income")
			Expect(table.Labels()).To(Equal([]string{"Net Income"}))
			Expect(table.Row("Net Income").Values).To(Equal([]float64{1, 2, 3}))
		})

		It("merges into an existing row with existing values winning", func() {
			table := data.NewTable(periods)
			table.Set("Net Income", periods[0], 10)
			table.SetRow("netIncome", seriesOf(periods, 1, 2, 3))

			table.RenameRow("netIncome", "Net Income")
			Expect(table.NumRows()).To(Equal(1))
			Expect(table.Row("Net Income").Values).To(Equal([]float64{10, 2, 3}))
		})
	})

	Describe("Clip", func() {
		It("restricts the table to periods inside the range", func() {
			table := data.NewTable(periods)
			table.SetRow("Revenue", seriesOf(periods, 1, 2, 3))

			start := data.Period{End: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)}
			clipped := table.Clip(start, data.Period{})
			Expect(clipped.Periods()).To(HaveLen(2))
			Expect(clipped.Row("Revenue").Values).To(Equal([]float64{2, 3}))
		})

		It("leaves zero bounds unbounded", func() {
			table := data.NewTable(periods)
			table.SetRow("Revenue", seriesOf(periods, 1, 2, 3))

			clipped := table.Clip(data.Period{}, data.Period{})
			Expect(clipped.Periods()).To(HaveLen(3))
		})
	})

	Describe("Records", func() {
		It("renders NaN cells as empty strings", func() {
			table := data.NewTable(periods)
			table.Set("Revenue", periods[0], 100)

			records := table.Records()
			Expect(records[0]).To(Equal([]string{"Line Item", "2021", "2022", "2023"}))
			Expect(records[1]).To(Equal([]string{"Revenue", "100", "", ""}))
		})
	})
})

var _ = Describe("MultiTable", func() {
	It("preserves ticker insertion order", func() {
		periods := annualPeriods(2023)

		multi := data.NewMultiTable()
		multi.Add("MSFT", data.NewTable(periods))
		multi.Add("AAPL", data.NewTable(periods))
		Expect(multi.Tickers()).To(Equal([]string{"MSFT", "AAPL"}))
	})

	It("keeps a ticker's position when its table is replaced", func() {
		periods := annualPeriods(2023)

		multi := data.NewMultiTable()
		multi.Add("MSFT", data.NewTable(periods))
		multi.Add("AAPL", data.NewTable(periods))
		multi.Add("MSFT", data.NewTable(periods))
		Expect(multi.Tickers()).To(Equal([]string{"MSFT", "AAPL"}))
	})

	It("renders a leading ticker column", func() {
		periods := annualPeriods(2023)

		table := data.NewTable(periods)
		table.Set("Revenue", periods[0], 100)

		multi := data.NewMultiTable()
		multi.Add("AAPL", table)

		records := multi.Records()
		Expect(records[0]).To(Equal([]string{"Ticker", "Line Item", "2023"}))
		Expect(records[1]).To(Equal([]string{"AAPL", "Revenue", "100"}))
	})

	It("takes the header from the first table with periods", func() {
		periods := annualPeriods(2022, 2023)

		empty := data.NewTable(nil)
		empty.SetRow("Revenue", data.Series{})

		table := data.NewTable(periods)
		table.Set("Revenue", periods[0], 100)
		table.Set("Revenue", periods[1], 120)

		multi := data.NewMultiTable()
		multi.Add("AAPL", empty)
		multi.Add("MSFT", table)

		records := multi.Records()
		Expect(records[0]).To(Equal([]string{"Ticker", "Line Item", "2022", "2023"}))

		// every row is as wide as the header, including the empty table's
		for _, record := range records[1:] {
			Expect(record).To(HaveLen(len(records[0])))
		}

		Expect(records[1]).To(Equal([]string{"AAPL", "Revenue", "", ""}))
		Expect(records[2]).To(Equal([]string{"MSFT", "Revenue", "100", "120"}))
	})
})

var _ = Describe("PriceHistory", func() {
	It("returns the last close on or before a date", func() {
		history := &data.PriceHistory{
			Ticker: "AAPL",
			Quotes: []*data.Eod{
				{Date: time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC), Close: 100},
				{Date: time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), Close: 105},
			},
		}

		// Dec 31 is a Sunday; the Dec 29 close applies
		Expect(history.CloseOn(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))).To(Equal(105.0))
	})

	It("returns NaN when no quote precedes the date", func() {
		history := &data.PriceHistory{Ticker: "AAPL"}
		Expect(math.IsNaN(history.CloseOn(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))).To(BeTrue())
	})
})

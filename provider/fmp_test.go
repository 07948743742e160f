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
package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvratios/data"
	"github.com/penny-vault/pvratios/provider"
)

const incomeStatementBody = `[
  {
    "date": "2023-12-31",
    "symbol": "AAPL",
    "reportedCurrency": "USD",
    "period": "FY",
    "revenue": 1200,
    "grossProfit": 600,
    "netIncome": 180,
    "finalLink": "https://www.sec.gov/Archives/example"
  },
  {
    "date": "2022-12-31",
    "symbol": "AAPL",
    "reportedCurrency": "USD",
    "period": "FY",
    "revenue": 1000,
    "grossProfit": 500,
    "netIncome": 100,
    "finalLink": "https://www.sec.gov/Archives/example"
  }
]`

var _ = Describe("FMP", func() {
	var (
		ctx    context.Context
		server *httptest.Server
		status int
		body   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		status = http.StatusOK
		body = incomeStatementBody

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			if _, err := w.Write([]byte(body)); err != nil {
				panic(err)
			}
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Statement", func() {
		It("decodes the response into a raw table", func() {
			fmp := provider.NewFMP("test-key", provider.WithBaseURL(server.URL))

			table, err := fmp.Statement(ctx, "AAPL", data.IncomeStatement, data.Annual)
			Expect(err).NotTo(HaveOccurred())

			// periods sort oldest first
			Expect(table.Periods()).To(HaveLen(2))
			Expect(table.Periods()[0].FiscalYear).To(Equal(2022))
			Expect(table.Row("revenue").Values).To(Equal([]float64{1000, 1200}))
		})

		It("keeps line items in document order", func() {
			fmp := provider.NewFMP("test-key", provider.WithBaseURL(server.URL))

			table, err := fmp.Statement(ctx, "AAPL", data.IncomeStatement, data.Annual)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Labels()).To(Equal([]string{"revenue", "grossProfit", "netIncome"}))
		})

		It("drops non-numeric metadata fields", func() {
			fmp := provider.NewFMP("test-key", provider.WithBaseURL(server.URL))

			table, err := fmp.Statement(ctx, "AAPL", data.IncomeStatement, data.Annual)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.HasRow("symbol")).To(BeFalse())
			Expect(table.HasRow("finalLink")).To(BeFalse())
		})

		It("maps an empty response to ErrDataUnavailable", func() {
			body = "[]"
			fmp := provider.NewFMP("test-key", provider.WithBaseURL(server.URL))

			_, err := fmp.Statement(ctx, "UNKNOWN", data.IncomeStatement, data.Annual)
			Expect(err).To(MatchError(provider.ErrDataUnavailable))
		})

		It("maps 401 to ErrInvalidAPIKey", func() {
			status = http.StatusUnauthorized
			fmp := provider.NewFMP("bad-key", provider.WithBaseURL(server.URL))

			_, err := fmp.Statement(ctx, "AAPL", data.IncomeStatement, data.Annual)
			Expect(err).To(MatchError(provider.ErrInvalidAPIKey))
		})

		It("maps 429 to ErrDataUnavailable", func() {
			status = http.StatusTooManyRequests
			fmp := provider.NewFMP("test-key", provider.WithBaseURL(server.URL))

			_, err := fmp.Statement(ctx, "AAPL", data.IncomeStatement, data.Annual)
			Expect(err).To(MatchError(provider.ErrDataUnavailable))
		})

		It("serves repeated requests from the cache", func() {
			cache, err := provider.NewCache(GinkgoT().TempDir(), 0)
			Expect(err).NotTo(HaveOccurred())

			fmp := provider.NewFMP("test-key",
				provider.WithBaseURL(server.URL), provider.WithCache(cache))

			_, err = fmp.Statement(ctx, "AAPL", data.IncomeStatement, data.Annual)
			Expect(err).NotTo(HaveOccurred())

			// poison the server; a cache hit never notices
			status = http.StatusInternalServerError

			table, err := fmp.Statement(ctx, "AAPL", data.IncomeStatement, data.Annual)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Row("revenue").Values).To(Equal([]float64{1000, 1200}))
		})
	})

	Describe("Profile", func() {
		It("decodes the first profile in the response", func() {
			body = `[{"symbol": "AAPL", "companyName": "Apple Inc.", "mktCap": 3000000, "currency": "USD"}]`
			fmp := provider.NewFMP("test-key", provider.WithBaseURL(server.URL))

			profile, err := fmp.Profile(ctx, "AAPL")
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Ticker).To(Equal("AAPL"))
			Expect(profile.CompanyName).To(Equal("Apple Inc."))
		})

		It("maps an empty response to ErrDataUnavailable", func() {
			body = "[]"
			fmp := provider.NewFMP("test-key", provider.WithBaseURL(server.URL))

			_, err := fmp.Profile(ctx, "UNKNOWN")
			Expect(err).To(MatchError(provider.ErrDataUnavailable))
		})
	})
})

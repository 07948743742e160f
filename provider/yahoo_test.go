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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/pvratios/provider"
)

const chartBody = `{
  "chart": {
    "result": [
      {
        "meta": {"currency": "USD", "symbol": "AAPL"},
        "timestamp": [1703721600, 1703808000],
        "indicators": {
          "quote": [
            {
              "open": [99, 104],
              "high": [101, 106],
              "low": [98, 103],
              "close": [100, 105],
              "volume": [1000, 1100]
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

var _ = Describe("Yahoo", func() {
	var (
		ctx    context.Context
		server *httptest.Server
		body   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		body = chartBody

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if _, err := w.Write([]byte(body)); err != nil {
				panic(err)
			}
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("decodes daily quotes from the chart response", func() {
		yahoo := provider.NewYahoo(provider.WithYahooBaseURL(server.URL))

		history, err := yahoo.PriceHistory(ctx, "AAPL",
			time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
		Expect(err).NotTo(HaveOccurred())
		Expect(history.Ticker).To(Equal("AAPL"))
		Expect(history.Quotes).To(HaveLen(2))
		Expect(history.Quotes[0].Close).To(Equal(100.0))
		Expect(history.Quotes[1].Close).To(Equal(105.0))
	})

	It("maps an empty result to ErrDataUnavailable", func() {
		body = `{"chart": {"result": [], "error": null}}`
		yahoo := provider.NewYahoo(provider.WithYahooBaseURL(server.URL))

		_, err := yahoo.PriceHistory(ctx, "UNKNOWN", time.Time{}, time.Now())
		Expect(err).To(MatchError(provider.ErrDataUnavailable))
	})
})

var _ = Describe("Cache", func() {
	It("round-trips a response body", func() {
		cache, err := provider.NewCache(GinkgoT().TempDir(), time.Hour)
		Expect(err).NotTo(HaveOccurred())

		key := provider.CacheKey("AAPL", "income-statement", "annual")
		Expect(cache.Put(key, []byte(`[{"revenue": 100}]`))).To(Succeed())

		cached, ok := cache.Get(key)
		Expect(ok).To(BeTrue())
		Expect(cached).To(Equal([]byte(`[{"revenue": 100}]`)))
	})

	It("misses for unknown keys", func() {
		cache, err := provider.NewCache(GinkgoT().TempDir(), time.Hour)
		Expect(err).NotTo(HaveOccurred())

		_, ok := cache.Get(provider.CacheKey("MSFT", "income-statement", "annual"))
		Expect(ok).To(BeFalse())
	})

	It("purges all entries", func() {
		cache, err := provider.NewCache(GinkgoT().TempDir(), time.Hour)
		Expect(err).NotTo(HaveOccurred())

		key := provider.CacheKey("AAPL", "income-statement", "annual")
		Expect(cache.Put(key, []byte("[]"))).To(Succeed())
		Expect(cache.Purge()).To(Succeed())

		_, ok := cache.Get(key)
		Expect(ok).To(BeFalse())
	})
})

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
package cmd

import (
	"encoding/csv"
	"os"
	"time"

	"github.com/penny-vault/pvratios/data"
	"github.com/penny-vault/pvratios/provider"
	"github.com/penny-vault/pvratios/toolkit"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// newToolkit builds a toolkit from the configured providers. The FMP api
// key must be set; everything else has defaults.
func newToolkit(tickers []string, periodType data.PeriodType, start, end time.Time, opts ...toolkit.Option) (*toolkit.Toolkit, error) {
	apiKey := viper.GetString("fmp.apikey")
	if apiKey == "" {
		log.Fatal().Msg("no Financial Modeling Prep api key configured; run `pvratios init` or set fmp.apikey")
	}

	fmpOpts := []provider.FMPOption{}
	if rateLimit := viper.GetInt("fmp.ratelimit"); rateLimit > 0 {
		fmpOpts = append(fmpOpts, provider.WithRateLimit(rateLimit))
	}

	if cacheDir := viper.GetString("cache.dir"); cacheDir != "" {
		cache, err := provider.NewCache(cacheDir, viper.GetDuration("cache.maxage"))
		if err != nil {
			log.Fatal().Err(err).Str("CacheDir", cacheDir).Msg("could not create cache directory")
		}

		fmpOpts = append(fmpOpts, provider.WithCache(cache))
	}

	fmp := provider.NewFMP(apiKey, fmpOpts...)
	yahoo := provider.NewYahoo()

	opts = append([]toolkit.Option{
		toolkit.WithSources(fmp, yahoo),
		toolkit.WithPeriodType(periodType),
		toolkit.WithDateRange(start, end),
	}, opts...)

	return toolkit.New(tickers, opts...)
}

// parseDate parses a yyyy-mm-dd command line flag; empty means unbounded.
func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Fatal().Err(err).Str("Date", value).Msg("dates must be formatted yyyy-mm-dd")
	}

	return date
}

// parsePeriodType maps the --period flag onto a statement period type.
func parsePeriodType(value string) data.PeriodType {
	switch value {
	case "annual":
		return data.Annual
	case "quarter", "quarterly":
		return data.Quarterly
	}

	log.Fatal().Str("Period", value).Msg("period must be annual or quarter")
	return data.Annual
}

// writeRecords prints CSV records to stdout, or to a file when outputFN is
// set.
func writeRecords(records [][]string, outputFN string) {
	out := os.Stdout
	if outputFN != "" {
		fp, err := os.Create(outputFN)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", outputFN).Msg("could not create output file")
		}
		defer fp.Close()
		out = fp
	}

	writer := csv.NewWriter(out)
	if err := writer.WriteAll(records); err != nil {
		log.Fatal().Err(err).Msg("could not write csv output")
	}
}

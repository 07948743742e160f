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
	"context"
	"os"
	"sort"

	"github.com/hako/durafmt"
	"github.com/pelletier/go-toml/v2"
	"github.com/penny-vault/pvratios/data"
	"github.com/penny-vault/pvratios/formula"
	"github.com/penny-vault/pvratios/healthcheck"
	"github.com/penny-vault/pvratios/library"
	"github.com/penny-vault/pvratios/ratios"
	"github.com/penny-vault/pvratios/toolkit"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	ratiosCategory string
	ratiosPeriod   string
	ratiosStart    string
	ratiosEnd      string
	ratiosCustom   string
	ratiosSave     bool
	ratiosOutput   string
)

// ratiosCmd represents the ratios command
var ratiosCmd = &cobra.Command{
	Use:   "ratios <ticker>...",
	Short: "Compute a category of financial ratios for a set of tickers",
	Long: `The ratios sub-command fetches statements and prices for each ticker,
computes every ratio in the requested category, and prints the merged table as
CSV with the ticker as the outermost index. A fetch failure for one ticker
leaves NaN rows for that ticker and processing continues; a rejected API key
aborts the run.

Custom ratios may be supplied as a TOML file mapping ratio names to
arithmetic expressions over canonical line items, for example:

    "Net Profit Margin" = "Net Income / Revenue"
    "Margin Squared" = "Net Profit Margin * Net Profit Margin"

and are collected with --category custom.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		opts := []toolkit.Option{}

		var registry *formula.Registry
		if ratiosCustom != "" {
			registry = loadCustomRatios(ratiosCustom)
			opts = append(opts, toolkit.WithCustomRatios(registry))
		}

		periodType := parsePeriodType(ratiosPeriod)
		myToolkit, err := newToolkit(args, periodType, parseDate(ratiosStart), parseDate(ratiosEnd), opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create toolkit")
		}

		if ratiosCategory == "custom" {
			multi, err := myToolkit.CollectCustomRatios(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("could not collect custom ratios")
			}

			writeRecords(multi.Records(), ratiosOutput)
			return
		}

		category := ratios.Category(ratiosCategory)
		if _, ok := ratios.Catalog[category]; !ok {
			log.Fatal().Str("Category", ratiosCategory).Msg("unknown ratio category")
		}

		multi, summary, err := myToolkit.CollectRatios(ctx, category)
		if err != nil {
			log.Fatal().Err(err).Msg("could not collect ratios")
		}

		writeRecords(multi.Records(), ratiosOutput)

		log.Info().Str("Category", string(category)).Int("NumTickers", summary.NumTickers).
			Int("NumFailed", summary.NumFailed).Int("NumObservations", summary.NumObservations).
			Str("Elapsed", durafmt.Parse(summary.EndTime.Sub(summary.StartTime)).LimitFirstN(2).String()).
			Msg("collection run finished")

		if ratiosSave {
			saveRun(ctx, myToolkit, multi, summary, periodType)
		}

		if checkID := viper.GetString("healthchecks.checkid"); checkID != "" {
			if summary.NumFailed == summary.NumTickers {
				if err := healthcheck.PingFailure(checkID); err != nil {
					log.Error().Err(err).Msg("could not ping healthcheck")
				}
			} else if err := healthcheck.Ping(checkID); err != nil {
				log.Error().Err(err).Msg("could not ping healthcheck")
			}
		}

		if summary.NumFailed == summary.NumTickers {
			os.Exit(1)
		}
	},
}

// loadCustomRatios reads a TOML file of name = expression pairs. Names are
// registered alphabetically so output order is stable.
func loadCustomRatios(fn string) *formula.Registry {
	raw, err := os.ReadFile(fn)
	if err != nil {
		log.Fatal().Err(err).Str("FileName", fn).Msg("could not read custom ratio file")
	}

	definitions := map[string]string{}
	if err := toml.Unmarshal(raw, &definitions); err != nil {
		log.Fatal().Err(err).Str("FileName", fn).Msg("could not parse custom ratio file")
	}

	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}

	sort.Strings(names)

	registry := formula.NewRegistry()
	for _, name := range names {
		registry.Define(name, definitions[name])
	}

	return registry
}

// saveRun persists the collection run, its source statements, and the
// computed ratio tables to the configured data library
func saveRun(ctx context.Context, myToolkit *toolkit.Toolkit, multi *data.MultiTable, summary *data.RunSummary, periodType data.PeriodType) {
	dbURL := viper.GetString("db.url")
	if dbURL == "" {
		log.Fatal().Msg("no database configured; run `pvratios init` or set db.url")
	}

	myLibrary, err := library.NewFromDB(ctx, dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to library")
	}
	defer myLibrary.Close()

	if err := myLibrary.SaveRun(ctx, summary, periodType); err != nil {
		log.Fatal().Err(err).Msg("could not save run to library")
	}

	for _, ticker := range multi.Tickers() {
		statements, err := myToolkit.Statements(ctx, ticker)
		if err != nil {
			// already counted as a failed ticker during collection
			continue
		}

		if err := myLibrary.SaveStatements(ctx, statements, summary.RunID); err != nil {
			log.Error().Err(err).Str("Ticker", ticker).Msg("could not save statements to library")
			continue
		}

		if err := myLibrary.SaveRatios(ctx, ticker, multi.Table(ticker), summary.RunID); err != nil {
			log.Error().Err(err).Str("Ticker", ticker).Msg("could not save ratios to library")
		}
	}

	log.Info().Str("RunID", summary.RunID.String()).Msg("saved collection run to library")
}

func init() {
	rootCmd.AddCommand(ratiosCmd)

	ratiosCmd.Flags().StringVarP(&ratiosCategory, "category", "c", "profitability", "ratio category: profitability, liquidity, solvency, efficiency, valuation, growth, or custom")
	ratiosCmd.Flags().StringVarP(&ratiosPeriod, "period", "p", "annual", "reporting period: annual or quarter")
	ratiosCmd.Flags().StringVar(&ratiosStart, "start", "", "earliest period end to include (yyyy-mm-dd)")
	ratiosCmd.Flags().StringVar(&ratiosEnd, "end", "", "latest period end to include (yyyy-mm-dd)")
	ratiosCmd.Flags().StringVar(&ratiosCustom, "custom", "", "toml file of custom ratio definitions")
	ratiosCmd.Flags().BoolVar(&ratiosSave, "save", false, "save results to the configured data library")
	ratiosCmd.Flags().StringVarP(&ratiosOutput, "output", "o", "", "write csv to file instead of stdout")
}

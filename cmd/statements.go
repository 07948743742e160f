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

	"github.com/penny-vault/pvratios/data"
	"github.com/penny-vault/pvratios/normalize"
	"github.com/penny-vault/pvratios/toolkit"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	statementsStatement string
	statementsPeriod    string
	statementsStart     string
	statementsEnd       string
	statementsMapping   string
	statementsOutput    string
)

var statementNames = map[string]data.StatementType{
	"balance":  data.BalanceSheet,
	"income":   data.IncomeStatement,
	"cashflow": data.CashFlow,
}

// statementsCmd represents the statements command
var statementsCmd = &cobra.Command{
	Use:   "statements <ticker>...",
	Short: "Fetch normalized financial statements for a set of tickers",
	Long: `The statements sub-command fetches one financial statement type for each
ticker, rewrites the line items onto the canonical vocabulary, and prints the
merged table as CSV with the ticker as the outermost index.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		statementType, ok := statementNames[statementsStatement]
		if !ok {
			log.Fatal().Str("Statement", statementsStatement).Msg("statement must be balance, income, or cashflow")
		}

		opts := []toolkit.Option{}
		if statementsMapping != "" {
			mapping, err := normalize.MappingFromFile(statementType, statementsMapping)
			if err != nil {
				log.Fatal().Err(err).Str("FileName", statementsMapping).Msg("could not load normalization mapping")
			}

			opts = append(opts, toolkit.WithMapping(mapping))
		}

		myToolkit, err := newToolkit(args, parsePeriodType(statementsPeriod),
			parseDate(statementsStart), parseDate(statementsEnd), opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create toolkit")
		}

		multi, err := myToolkit.CollectStatements(ctx, statementType)
		if err != nil {
			log.Fatal().Err(err).Msg("could not collect statements")
		}

		writeRecords(multi.Records(), statementsOutput)
	},
}

func init() {
	rootCmd.AddCommand(statementsCmd)

	statementsCmd.Flags().StringVarP(&statementsStatement, "statement", "t", "income", "statement type: balance, income, or cashflow")
	statementsCmd.Flags().StringVarP(&statementsPeriod, "period", "p", "annual", "reporting period: annual or quarter")
	statementsCmd.Flags().StringVar(&statementsStart, "start", "", "earliest period end to include (yyyy-mm-dd)")
	statementsCmd.Flags().StringVar(&statementsEnd, "end", "", "latest period end to include (yyyy-mm-dd)")
	statementsCmd.Flags().StringVar(&statementsMapping, "mapping", "", "normalization csv replacing the built-in mapping")
	statementsCmd.Flags().StringVarP(&statementsOutput, "output", "o", "", "write csv to file instead of stdout")
}

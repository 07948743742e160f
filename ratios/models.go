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
package ratios

import (
	"github.com/penny-vault/pvratios/data"
)

// DuPont decomposes return on equity into net margin, asset turnover, and
// the equity multiplier. The returned table holds one row per component
// plus the recombined ROE.
func DuPont(income, balance *data.Table) *data.Table {
	netMargin := NetMargin(income)
	assetTurnover := AssetTurnover(income, balance)
	equityMultiplier := EquityMultiplier(balance)

	table := data.NewTable(income.Periods())
	table.SetRow("Net Profit Margin", netMargin)
	table.SetRow("Asset Turnover", assetTurnover)
	table.SetRow("Equity Multiplier", equityMultiplier)
	table.SetRow("Return on Equity", netMargin.Mul(assetTurnover).Mul(equityMultiplier))

	return table
}

// ExtendedDuPont decomposes return on equity into five factors: tax burden,
// interest burden, operating margin, asset turnover, and the equity
// multiplier.
func ExtendedDuPont(income, balance *data.Table) *data.Table {
	taxBurden := income.Row("Net Income").Div(income.Row("Income Before Tax"))
	interestBurden := income.Row("Income Before Tax").Div(income.Row("Operating Income"))
	operatingMargin := OperatingMargin(income)
	assetTurnover := AssetTurnover(income, balance)
	equityMultiplier := EquityMultiplier(balance)

	table := data.NewTable(income.Periods())
	table.SetRow("Tax Burden", taxBurden)
	table.SetRow("Interest Burden", interestBurden)
	table.SetRow("Operating Margin", operatingMargin)
	table.SetRow("Asset Turnover", assetTurnover)
	table.SetRow("Equity Multiplier", equityMultiplier)
	table.SetRow("Return on Equity", taxBurden.
		Mul(interestBurden).
		Mul(operatingMargin).
		Mul(assetTurnover).
		Mul(equityMultiplier))

	return table
}

// AltmanZ computes the Altman Z-score for predicting bankruptcy risk along
// with its five weighted components. Scores below 1.81 signal distress;
// scores above 2.99 signal safety.
func AltmanZ(income, balance *data.Table, price data.Series) *data.Table {
	totalAssets := balance.Row("Total Assets")

	workingCapitalToAssets := WorkingCapital(balance).Div(totalAssets)
	retainedEarningsToAssets := balance.Row("Retained Earnings").Div(totalAssets)
	ebitToAssets := income.Row("Operating Income").Div(totalAssets)
	marketCapToLiabilities := MarketCap(income, price).Div(balance.Row("Total Liabilities"))
	revenueToAssets := income.Row("Revenue").Div(totalAssets)

	table := data.NewTable(income.Periods())
	table.SetRow("Working Capital to Assets", workingCapitalToAssets)
	table.SetRow("Retained Earnings to Assets", retainedEarningsToAssets)
	table.SetRow("EBIT to Assets", ebitToAssets)
	table.SetRow("Market Cap to Liabilities", marketCapToLiabilities)
	table.SetRow("Revenue to Assets", revenueToAssets)
	table.SetRow("Altman Z-Score", workingCapitalToAssets.MulScalar(1.2).
		Add(retainedEarningsToAssets.MulScalar(1.4)).
		Add(ebitToAssets.MulScalar(3.3)).
		Add(marketCapToLiabilities.MulScalar(0.6)).
		Add(revenueToAssets))

	return table
}

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

type Category string

const (
	Profitability Category = "profitability"
	Liquidity     Category = "liquidity"
	Solvency      Category = "solvency"
	Efficiency    Category = "efficiency"
	Valuation     Category = "valuation"
	Growth        Category = "growth"
)

// Categories lists every ratio category in presentation order.
var Categories = []Category{Profitability, Liquidity, Solvency, Efficiency, Valuation, Growth}

// Inputs bundles the normalized statements and period-end share prices for
// one ticker, everything a catalog formula may draw on.
type Inputs struct {
	Balance  *data.Table
	Income   *data.Table
	CashFlow *data.Table
	Price    data.Series
}

// Definition names a single ratio and how to compute it from a ticker's
// inputs.
type Definition struct {
	Name    string
	Compute func(in Inputs) data.Series
}

// Catalog maps each category to its ratio definitions in presentation
// order.
var Catalog = map[Category][]Definition{
	Profitability: {
		{"Gross Margin", func(in Inputs) data.Series { return GrossMargin(in.Income) }},
		{"Operating Margin", func(in Inputs) data.Series { return OperatingMargin(in.Income) }},
		{"Net Margin", func(in Inputs) data.Series { return NetMargin(in.Income) }},
		{"EBITDA Margin", func(in Inputs) data.Series { return EBITDAMargin(in.Income) }},
		{"Pretax Margin", func(in Inputs) data.Series { return PretaxMargin(in.Income) }},
		{"Effective Tax Rate", func(in Inputs) data.Series { return EffectiveTaxRate(in.Income) }},
		{"Return on Assets", func(in Inputs) data.Series { return ReturnOnAssets(in.Income, in.Balance) }},
		{"Return on Equity", func(in Inputs) data.Series { return ReturnOnEquity(in.Income, in.Balance) }},
		{"Return on Capital Employed", func(in Inputs) data.Series { return ReturnOnCapitalEmployed(in.Income, in.Balance) }},
		{"Return on Invested Capital", func(in Inputs) data.Series { return ReturnOnInvestedCapital(in.Income, in.Balance) }},
		{"Income Quality", func(in Inputs) data.Series { return IncomeQuality(in.CashFlow, in.Income) }},
	},

	Liquidity: {
		{"Current Ratio", func(in Inputs) data.Series { return CurrentRatio(in.Balance) }},
		{"Quick Ratio", func(in Inputs) data.Series { return QuickRatio(in.Balance) }},
		{"Cash Ratio", func(in Inputs) data.Series { return CashRatio(in.Balance) }},
		{"Working Capital", func(in Inputs) data.Series { return WorkingCapital(in.Balance) }},
		{"Operating Cash Flow Ratio", func(in Inputs) data.Series { return OperatingCashFlowRatio(in.CashFlow, in.Balance) }},
		{"Short Term Coverage Ratio", func(in Inputs) data.Series { return ShortTermCoverageRatio(in.CashFlow, in.Balance) }},
	},

	Solvency: {
		{"Debt to Assets", func(in Inputs) data.Series { return DebtToAssets(in.Balance) }},
		{"Debt to Equity", func(in Inputs) data.Series { return DebtToEquity(in.Balance) }},
		{"Interest Coverage", func(in Inputs) data.Series { return InterestCoverage(in.Income) }},
		{"Equity Multiplier", func(in Inputs) data.Series { return EquityMultiplier(in.Balance) }},
		{"Debt Service Coverage", func(in Inputs) data.Series { return DebtServiceCoverage(in.Income, in.Balance) }},
		{"Cash Flow Coverage", func(in Inputs) data.Series { return CashFlowCoverage(in.CashFlow, in.Balance) }},
		{"Free Cash Flow to Debt", func(in Inputs) data.Series { return FreeCashFlowToDebt(in.CashFlow, in.Balance) }},
	},

	Efficiency: {
		{"Asset Turnover", func(in Inputs) data.Series { return AssetTurnover(in.Income, in.Balance) }},
		{"Fixed Asset Turnover", func(in Inputs) data.Series { return FixedAssetTurnover(in.Income, in.Balance) }},
		{"Inventory Turnover", func(in Inputs) data.Series { return InventoryTurnover(in.Income, in.Balance) }},
		{"Days Inventory Outstanding", func(in Inputs) data.Series { return DaysInventoryOutstanding(in.Income, in.Balance) }},
		{"Receivables Turnover", func(in Inputs) data.Series { return ReceivablesTurnover(in.Income, in.Balance) }},
		{"Days Sales Outstanding", func(in Inputs) data.Series { return DaysSalesOutstanding(in.Income, in.Balance) }},
		{"Payables Turnover", func(in Inputs) data.Series { return PayablesTurnover(in.Income, in.Balance) }},
		{"Days Payables Outstanding", func(in Inputs) data.Series { return DaysPayablesOutstanding(in.Income, in.Balance) }},
		{"Cash Conversion Cycle", func(in Inputs) data.Series { return CashConversionCycle(in.Income, in.Balance) }},
		{"Working Capital Turnover", func(in Inputs) data.Series { return WorkingCapitalTurnover(in.Income, in.Balance) }},
	},

	Valuation: {
		{"Earnings per Share", func(in Inputs) data.Series { return EarningsPerShare(in.Income) }},
		{"Market Cap", func(in Inputs) data.Series { return MarketCap(in.Income, in.Price) }},
		{"Price to Earnings", func(in Inputs) data.Series { return PriceToEarnings(in.Income, in.Price) }},
		{"Price to Book", func(in Inputs) data.Series { return PriceToBook(in.Income, in.Balance, in.Price) }},
		{"Price to Sales", func(in Inputs) data.Series { return PriceToSales(in.Income, in.Price) }},
		{"Price to Cash Flow", func(in Inputs) data.Series { return PriceToCashFlow(in.Income, in.CashFlow, in.Price) }},
		{"Earnings Yield", func(in Inputs) data.Series { return EarningsYield(in.Income, in.Price) }},
		{"Dividend Yield", func(in Inputs) data.Series { return DividendYield(in.Income, in.CashFlow, in.Price) }},
		{"Payout Ratio", func(in Inputs) data.Series { return PayoutRatio(in.Income, in.CashFlow) }},
		{"Enterprise Value", func(in Inputs) data.Series { return EnterpriseValue(in.Income, in.Balance, in.Price) }},
		{"EV to EBITDA", func(in Inputs) data.Series { return EVToEBITDA(in.Income, in.Balance, in.Price) }},
		{"EV to Sales", func(in Inputs) data.Series { return EVToSales(in.Income, in.Balance, in.Price) }},
		{"EV to Operating Cash Flow", func(in Inputs) data.Series { return EVToOperatingCashFlow(in.Income, in.Balance, in.CashFlow, in.Price) }},
		{"Free Cash Flow Yield", func(in Inputs) data.Series { return FreeCashFlowYield(in.Income, in.CashFlow, in.Price) }},
	},

	Growth: {
		{"Revenue Growth", func(in Inputs) data.Series { return RevenueGrowth(in.Income) }},
		{"Gross Profit Growth", func(in Inputs) data.Series { return GrossProfitGrowth(in.Income) }},
		{"Operating Income Growth", func(in Inputs) data.Series { return OperatingIncomeGrowth(in.Income) }},
		{"Net Income Growth", func(in Inputs) data.Series { return NetIncomeGrowth(in.Income) }},
		{"EPS Growth", func(in Inputs) data.Series { return EPSGrowth(in.Income) }},
		{"Total Assets Growth", func(in Inputs) data.Series { return TotalAssetsGrowth(in.Balance) }},
		{"Total Equity Growth", func(in Inputs) data.Series { return TotalEquityGrowth(in.Balance) }},
		{"Free Cash Flow Growth", func(in Inputs) data.Series { return FreeCashFlowGrowth(in.CashFlow) }},
		{"Revenue CAGR 3Y", func(in Inputs) data.Series { return RevenueCAGR3(in.Income) }},
		{"Net Income CAGR 3Y", func(in Inputs) data.Series { return NetIncomeCAGR3(in.Income) }},
	},
}

// Lookup finds a single ratio definition by name across all categories.
func Lookup(name string) (Definition, bool) {
	for _, category := range Categories {
		for _, definition := range Catalog[category] {
			if definition.Name == name {
				return definition, true
			}
		}
	}

	return Definition{}, false
}

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

// Valuation ratios combine statement data with the share price at each
// period end, supplied as a series aligned to the statement periods.

// EarningsPerShare measures net income relative to weighted average shares
// outstanding.
func EarningsPerShare(income *data.Table) data.Series {
	return income.Row("Net Income").Div(income.Row("Weighted Average Shares"))
}

// MarketCap measures the product of the share price and weighted average
// shares outstanding at each period end.
func MarketCap(income *data.Table, price data.Series) data.Series {
	return price.Mul(income.Row("Weighted Average Shares"))
}

// PriceToEarnings measures the share price relative to earnings per share.
func PriceToEarnings(income *data.Table, price data.Series) data.Series {
	return price.Div(EarningsPerShare(income))
}

// PriceToBook measures market capitalization relative to shareholder equity.
func PriceToBook(income, balance *data.Table, price data.Series) data.Series {
	return MarketCap(income, price).Div(balance.Row("Total Shareholder Equity"))
}

// PriceToSales measures market capitalization relative to revenue.
func PriceToSales(income *data.Table, price data.Series) data.Series {
	return MarketCap(income, price).Div(income.Row("Revenue"))
}

// PriceToCashFlow measures market capitalization relative to operating cash
// flow.
func PriceToCashFlow(income, cashflow *data.Table, price data.Series) data.Series {
	return MarketCap(income, price).Div(cashflow.Row("Cash Flow from Operations"))
}

// EarningsYield measures earnings per share relative to the share price.
func EarningsYield(income *data.Table, price data.Series) data.Series {
	return EarningsPerShare(income).Div(price)
}

// DividendYield measures dividends paid per share relative to the share
// price. Dividends paid are reported as a cash outflow, so the sign is
// flipped.
func DividendYield(income, cashflow *data.Table, price data.Series) data.Series {
	dividendPerShare := cashflow.Row("Dividends Paid").Neg().Div(income.Row("Weighted Average Shares"))
	return dividendPerShare.Div(price)
}

// PayoutRatio measures dividends paid relative to net income.
func PayoutRatio(income, cashflow *data.Table) data.Series {
	return cashflow.Row("Dividends Paid").Neg().Div(income.Row("Net Income"))
}

// EnterpriseValue measures market capitalization plus total debt less cash
// and equivalents.
func EnterpriseValue(income, balance *data.Table, price data.Series) data.Series {
	return MarketCap(income, price).
		Add(balance.Row("Total Debt")).
		Sub(balance.Row("Cash and Cash Equivalents"))
}

// EVToEBITDA measures enterprise value relative to EBITDA.
func EVToEBITDA(income, balance *data.Table, price data.Series) data.Series {
	return EnterpriseValue(income, balance, price).Div(income.Row("EBITDA"))
}

// EVToSales measures enterprise value relative to revenue.
func EVToSales(income, balance *data.Table, price data.Series) data.Series {
	return EnterpriseValue(income, balance, price).Div(income.Row("Revenue"))
}

// EVToOperatingCashFlow measures enterprise value relative to operating cash
// flow.
func EVToOperatingCashFlow(income, balance, cashflow *data.Table, price data.Series) data.Series {
	return EnterpriseValue(income, balance, price).Div(cashflow.Row("Cash Flow from Operations"))
}

// FreeCashFlowYield measures free cash flow relative to market
// capitalization.
func FreeCashFlowYield(income, cashflow *data.Table, price data.Series) data.Series {
	return cashflow.Row("Free Cash Flow").Div(MarketCap(income, price))
}

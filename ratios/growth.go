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

// Growth metrics require one extra period of history per lag: a series of N
// periods produces N-1 one-period growth observations and the first slot is
// always NaN.

// RevenueGrowth measures the one-period fractional change in revenue.
func RevenueGrowth(income *data.Table) data.Series {
	return income.Row("Revenue").Growth()
}

// GrossProfitGrowth measures the one-period fractional change in gross
// profit.
func GrossProfitGrowth(income *data.Table) data.Series {
	return income.Row("Gross Profit").Growth()
}

// OperatingIncomeGrowth measures the one-period fractional change in
// operating income.
func OperatingIncomeGrowth(income *data.Table) data.Series {
	return income.Row("Operating Income").Growth()
}

// NetIncomeGrowth measures the one-period fractional change in net income.
func NetIncomeGrowth(income *data.Table) data.Series {
	return income.Row("Net Income").Growth()
}

// EPSGrowth measures the one-period fractional change in earnings per
// share.
func EPSGrowth(income *data.Table) data.Series {
	return income.Row("EPS").Growth()
}

// TotalAssetsGrowth measures the one-period fractional change in total
// assets.
func TotalAssetsGrowth(balance *data.Table) data.Series {
	return balance.Row("Total Assets").Growth()
}

// TotalEquityGrowth measures the one-period fractional change in
// shareholder equity.
func TotalEquityGrowth(balance *data.Table) data.Series {
	return balance.Row("Total Shareholder Equity").Growth()
}

// FreeCashFlowGrowth measures the one-period fractional change in free cash
// flow.
func FreeCashFlowGrowth(cashflow *data.Table) data.Series {
	return cashflow.Row("Free Cash Flow").Growth()
}

// RevenueCAGR3 measures the trailing three-period compound annual growth
// rate of revenue.
func RevenueCAGR3(income *data.Table) data.Series {
	return income.Row("Revenue").CAGR(3)
}

// NetIncomeCAGR3 measures the trailing three-period compound annual growth
// rate of net income.
func NetIncomeCAGR3(income *data.Table) data.Series {
	return income.Row("Net Income").CAGR(3)
}

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

// DebtToAssets measures total debt relative to total assets.
func DebtToAssets(balance *data.Table) data.Series {
	return balance.Row("Total Debt").Div(balance.Row("Total Assets"))
}

// DebtToEquity measures total debt relative to shareholder equity.
func DebtToEquity(balance *data.Table) data.Series {
	return balance.Row("Total Debt").Div(balance.Row("Total Shareholder Equity"))
}

// InterestCoverage measures operating income relative to interest expense.
func InterestCoverage(income *data.Table) data.Series {
	return income.Row("Operating Income").Div(income.Row("Interest Expense"))
}

// EquityMultiplier measures average total assets relative to average
// shareholder equity; a component of DuPont ROE analysis.
func EquityMultiplier(balance *data.Table) data.Series {
	return balance.Row("Total Assets").Average().Div(balance.Row("Total Shareholder Equity").Average())
}

// DebtServiceCoverage measures operating income relative to current
// liabilities.
func DebtServiceCoverage(income, balance *data.Table) data.Series {
	return income.Row("Operating Income").Div(balance.Row("Total Current Liabilities"))
}

// CashFlowCoverage measures operating cash flow relative to total debt.
func CashFlowCoverage(cashflow, balance *data.Table) data.Series {
	return cashflow.Row("Cash Flow from Operations").Div(balance.Row("Total Debt"))
}

// FreeCashFlowToDebt measures free cash flow relative to total debt.
func FreeCashFlowToDebt(cashflow, balance *data.Table) data.Series {
	return cashflow.Row("Free Cash Flow").Div(balance.Row("Total Debt"))
}

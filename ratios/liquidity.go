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

// CurrentRatio measures current assets relative to current liabilities.
func CurrentRatio(balance *data.Table) data.Series {
	return balance.Row("Total Current Assets").Div(balance.Row("Total Current Liabilities"))
}

// QuickRatio measures the most liquid current assets (cash, short term
// investments, and receivables) relative to current liabilities.
func QuickRatio(balance *data.Table) data.Series {
	liquid := balance.Row("Cash and Cash Equivalents").
		Add(balance.Row("Short Term Investments")).
		Add(balance.Row("Accounts Receivable"))
	return liquid.Div(balance.Row("Total Current Liabilities"))
}

// CashRatio measures cash and short term investments relative to current
// liabilities.
func CashRatio(balance *data.Table) data.Series {
	cash := balance.Row("Cash and Cash Equivalents").Add(balance.Row("Short Term Investments"))
	return cash.Div(balance.Row("Total Current Liabilities"))
}

// WorkingCapital measures the difference between current assets and current
// liabilities.
func WorkingCapital(balance *data.Table) data.Series {
	return balance.Row("Total Current Assets").Sub(balance.Row("Total Current Liabilities"))
}

// OperatingCashFlowRatio measures operating cash flow relative to current
// liabilities.
func OperatingCashFlowRatio(cashflow, balance *data.Table) data.Series {
	return cashflow.Row("Cash Flow from Operations").Div(balance.Row("Total Current Liabilities"))
}

// ShortTermCoverageRatio measures operating cash flow relative to short term
// working capital requirements (receivables plus inventory less payables).
func ShortTermCoverageRatio(cashflow, balance *data.Table) data.Series {
	requirement := balance.Row("Accounts Receivable").
		Add(balance.Row("Inventory")).
		Sub(balance.Row("Accounts Payable"))
	return cashflow.Row("Cash Flow from Operations").Div(requirement)
}

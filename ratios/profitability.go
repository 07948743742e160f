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

// GrossMargin measures the ratio between gross profit and revenue.
func GrossMargin(income *data.Table) data.Series {
	return income.Row("Gross Profit").Div(income.Row("Revenue"))
}

// OperatingMargin measures the ratio between operating income and revenue.
func OperatingMargin(income *data.Table) data.Series {
	return income.Row("Operating Income").Div(income.Row("Revenue"))
}

// NetMargin measures the ratio between net income and revenue.
func NetMargin(income *data.Table) data.Series {
	return income.Row("Net Income").Div(income.Row("Revenue"))
}

// EBITDAMargin measures the ratio between EBITDA and revenue.
func EBITDAMargin(income *data.Table) data.Series {
	return income.Row("EBITDA").Div(income.Row("Revenue"))
}

// PretaxMargin measures the ratio between pre-tax income and revenue.
func PretaxMargin(income *data.Table) data.Series {
	return income.Row("Income Before Tax").Div(income.Row("Revenue"))
}

// EffectiveTaxRate measures the ratio between income tax expense and pre-tax
// income.
func EffectiveTaxRate(income *data.Table) data.Series {
	return income.Row("Income Tax Expense").Div(income.Row("Income Before Tax"))
}

// ReturnOnAssets measures net income relative to average total assets.
func ReturnOnAssets(income, balance *data.Table) data.Series {
	return income.Row("Net Income").Div(balance.Row("Total Assets").Average())
}

// ReturnOnEquity measures net income relative to average shareholder equity.
func ReturnOnEquity(income, balance *data.Table) data.Series {
	return income.Row("Net Income").Div(balance.Row("Total Shareholder Equity").Average())
}

// ReturnOnCapitalEmployed measures operating income relative to capital
// employed (total assets less current liabilities).
func ReturnOnCapitalEmployed(income, balance *data.Table) data.Series {
	capitalEmployed := balance.Row("Total Assets").Sub(balance.Row("Total Current Liabilities"))
	return income.Row("Operating Income").Div(capitalEmployed)
}

// ReturnOnInvestedCapital measures after-tax operating income relative to
// average invested capital (total debt plus shareholder equity).
func ReturnOnInvestedCapital(income, balance *data.Table) data.Series {
	taxRate := EffectiveTaxRate(income)
	nopat := income.Row("Operating Income").Mul(taxRate.Neg().AddScalar(1))
	investedCapital := balance.Row("Total Debt").Add(balance.Row("Total Shareholder Equity")).Average()
	return nopat.Div(investedCapital)
}

// IncomeQuality measures operating cash flow relative to net income; values
// above one indicate earnings backed by cash.
func IncomeQuality(cashflow, income *data.Table) data.Series {
	return cashflow.Row("Cash Flow from Operations").Div(income.Row("Net Income"))
}

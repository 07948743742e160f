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

const daysPerPeriod = 365.0

// AssetTurnover measures revenue relative to average total assets.
func AssetTurnover(income, balance *data.Table) data.Series {
	return income.Row("Revenue").Div(balance.Row("Total Assets").Average())
}

// FixedAssetTurnover measures revenue relative to average property, plant,
// and equipment.
func FixedAssetTurnover(income, balance *data.Table) data.Series {
	return income.Row("Revenue").Div(balance.Row("Property Plant and Equipment").Average())
}

// InventoryTurnover measures cost of goods sold relative to average
// inventory.
func InventoryTurnover(income, balance *data.Table) data.Series {
	return income.Row("Cost of Goods Sold").Div(balance.Row("Inventory").Average())
}

// DaysInventoryOutstanding measures the number of days inventory is held
// before sale.
func DaysInventoryOutstanding(income, balance *data.Table) data.Series {
	turnover := InventoryTurnover(income, balance)
	result := data.NewSeries(turnover.Periods)
	for idx, value := range turnover.Values {
		result.Values[idx] = data.SafeDiv(daysPerPeriod, value)
	}

	return result
}

// ReceivablesTurnover measures revenue relative to average accounts
// receivable.
func ReceivablesTurnover(income, balance *data.Table) data.Series {
	return income.Row("Revenue").Div(balance.Row("Accounts Receivable").Average())
}

// DaysSalesOutstanding measures the number of days between a sale and cash
// collection.
func DaysSalesOutstanding(income, balance *data.Table) data.Series {
	turnover := ReceivablesTurnover(income, balance)
	result := data.NewSeries(turnover.Periods)
	for idx, value := range turnover.Values {
		result.Values[idx] = data.SafeDiv(daysPerPeriod, value)
	}

	return result
}

// PayablesTurnover measures cost of goods sold relative to average accounts
// payable.
func PayablesTurnover(income, balance *data.Table) data.Series {
	return income.Row("Cost of Goods Sold").Div(balance.Row("Accounts Payable").Average())
}

// DaysPayablesOutstanding measures the number of days taken to pay
// suppliers.
func DaysPayablesOutstanding(income, balance *data.Table) data.Series {
	turnover := PayablesTurnover(income, balance)
	result := data.NewSeries(turnover.Periods)
	for idx, value := range turnover.Values {
		result.Values[idx] = data.SafeDiv(daysPerPeriod, value)
	}

	return result
}

// CashConversionCycle measures the number of days between paying for
// inventory and collecting cash from its sale.
func CashConversionCycle(income, balance *data.Table) data.Series {
	return DaysInventoryOutstanding(income, balance).
		Add(DaysSalesOutstanding(income, balance)).
		Sub(DaysPayablesOutstanding(income, balance))
}

// WorkingCapitalTurnover measures revenue relative to average working
// capital.
func WorkingCapitalTurnover(income, balance *data.Table) data.Series {
	return income.Row("Revenue").Div(WorkingCapital(balance).Average())
}

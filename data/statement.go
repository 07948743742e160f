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
package data

import (
	"time"

	"github.com/google/uuid"
)

type StatementType string

const (
	BalanceSheet    StatementType = "balance-sheet-statement"
	IncomeStatement StatementType = "income-statement"
	CashFlow        StatementType = "cash-flow-statement"
)

// StatementTypes lists every supported statement in presentation order.
var StatementTypes = []StatementType{BalanceSheet, IncomeStatement, CashFlow}

// Statements bundles the three normalized statement tables for one ticker.
// All three tables share the same period index.
type Statements struct {
	Ticker          string
	BalanceSheet    *Table
	IncomeStatement *Table
	CashFlow        *Table
}

// Statement returns the table for the requested statement type.
func (statements *Statements) Statement(statementType StatementType) *Table {
	switch statementType {
	case BalanceSheet:
		return statements.BalanceSheet
	case IncomeStatement:
		return statements.IncomeStatement
	case CashFlow:
		return statements.CashFlow
	}

	return nil
}

// RunSummary describes a single bulk-collection run across a set of tickers.
type RunSummary struct {
	RunID           uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	Category        string
	NumTickers      int
	NumFailed       int
	NumObservations int
}

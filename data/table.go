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
	"math"
	"sort"
	"strconv"
)

// Table is a two-dimensional financial statement table: rows are line items,
// columns are reporting periods in chronological order. Row labels keep
// their insertion order so that a normalized statement reads in the same
// order the provider reported it.
type Table struct {
	labels  []string
	index   map[string]int
	periods []Period
	cells   [][]float64
}

// NewTable creates an empty table over the given periods. Periods are sorted
// chronologically regardless of input order.
func NewTable(periods []Period) *Table {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	return &Table{
		index:   make(map[string]int),
		periods: sorted,
	}
}

// Periods returns the table's column index.
func (table *Table) Periods() []Period {
	return table.periods
}

// Labels returns the row labels in insertion order.
func (table *Table) Labels() []string {
	return table.labels
}

// NumRows returns the number of line items in the table.
func (table *Table) NumRows() int {
	return len(table.labels)
}

// HasRow reports whether a line item exists in the table.
func (table *Table) HasRow(label string) bool {
	_, ok := table.index[label]
	return ok
}

// ensureRow returns the row index for label, creating a NaN-filled row when
// the label is new.
func (table *Table) ensureRow(label string) int {
	if idx, ok := table.index[label]; ok {
		return idx
	}

	row := make([]float64, len(table.periods))
	for idx := range row {
		row[idx] = math.NaN()
	}

	table.index[label] = len(table.labels)
	table.labels = append(table.labels, label)
	table.cells = append(table.cells, row)

	return len(table.labels) - 1
}

// Set stores a value for the given line item and period. Unknown periods are
// ignored; unknown labels create a new row.
func (table *Table) Set(label string, period Period, value float64) {
	rowIdx := table.ensureRow(label)
	for colIdx, p := range table.periods {
		if p.Equal(period) {
			table.cells[rowIdx][colIdx] = value
			return
		}
	}
}

// SetRow replaces the entire row for a line item, aligning the series on the
// table's period index.
func (table *Table) SetRow(label string, series Series) {
	rowIdx := table.ensureRow(label)
	for colIdx, period := range table.periods {
		table.cells[rowIdx][colIdx] = series.At(period)
	}
}

// MergeRow fills missing values of a line item from the given series,
// creating the row when it does not exist. Existing non-NaN values win.
// Used when several provider labels map onto one canonical label.
func (table *Table) MergeRow(label string, series Series) {
	rowIdx := table.ensureRow(label)
	for colIdx, period := range table.periods {
		if math.IsNaN(table.cells[rowIdx][colIdx]) {
			table.cells[rowIdx][colIdx] = series.At(period)
		}
	}
}

// Row returns the series for a line item aligned to the table's periods.
// A missing line item yields an all-NaN series so that ratio formulas always
// receive a well-formed input.
func (table *Table) Row(label string) Series {
	series := NewSeries(table.periods)
	if rowIdx, ok := table.index[label]; ok {
		copy(series.Values, table.cells[rowIdx])
	}

	return series
}

// RenameRow rewrites a row label in place, keeping row order. When the new
// label already exists the rows are merged, with existing values winning
// over NaN.
func (table *Table) RenameRow(oldLabel, newLabel string) {
	rowIdx, ok := table.index[oldLabel]
	if !ok || oldLabel == newLabel {
		return
	}

	if targetIdx, exists := table.index[newLabel]; exists {
		for colIdx, value := range table.cells[rowIdx] {
			if math.IsNaN(table.cells[targetIdx][colIdx]) {
				table.cells[targetIdx][colIdx] = value
			}
		}

		table.removeRow(rowIdx)
		return
	}

	delete(table.index, oldLabel)
	table.index[newLabel] = rowIdx
	table.labels[rowIdx] = newLabel
}

func (table *Table) removeRow(rowIdx int) {
	delete(table.index, table.labels[rowIdx])
	table.labels = append(table.labels[:rowIdx], table.labels[rowIdx+1:]...)
	table.cells = append(table.cells[:rowIdx], table.cells[rowIdx+1:]...)
	for idx, label := range table.labels {
		table.index[label] = idx
	}
}

// Clip returns a copy of the table restricted to periods within
// [start, end]. Zero bounds leave that side unbounded.
func (table *Table) Clip(start, end Period) *Table {
	keep := make([]Period, 0, len(table.periods))
	cols := make([]int, 0, len(table.periods))
	for colIdx, period := range table.periods {
		if !start.End.IsZero() && period.Before(start) {
			continue
		}

		if !end.End.IsZero() && end.Before(period) {
			continue
		}

		keep = append(keep, period)
		cols = append(cols, colIdx)
	}

	clipped := NewTable(keep)
	for _, label := range table.labels {
		rowIdx := table.index[label]
		newIdx := clipped.ensureRow(label)
		for outIdx, colIdx := range cols {
			clipped.cells[newIdx][outIdx] = table.cells[rowIdx][colIdx]
		}
	}

	return clipped
}

// Records flattens the table into CSV-style records with a header row of
// period labels.
func (table *Table) Records() [][]string {
	records := make([][]string, 0, len(table.labels)+1)

	header := make([]string, 0, len(table.periods)+1)
	header = append(header, "Line Item")
	for _, period := range table.periods {
		header = append(header, period.String())
	}

	records = append(records, header)

	for rowIdx, label := range table.labels {
		record := make([]string, 0, len(table.periods)+1)
		record = append(record, label)
		for _, value := range table.cells[rowIdx] {
			record = append(record, formatCell(value))
		}

		records = append(records, record)
	}

	return records
}

func formatCell(value float64) string {
	if math.IsNaN(value) {
		return ""
	}

	return strconv.FormatFloat(value, 'f', -1, 64)
}

// MultiTable merges per-ticker tables under a ticker-outermost index. The
// ticker order is the order tickers were added and never changes, even when
// a ticker's table is empty because its fetch failed.
type MultiTable struct {
	tickers []string
	tables  map[string]*Table
}

func NewMultiTable() *MultiTable {
	return &MultiTable{
		tables: make(map[string]*Table),
	}
}

// Add registers a ticker's table. Re-adding a ticker replaces its table but
// keeps its original position.
func (multi *MultiTable) Add(ticker string, table *Table) {
	if _, ok := multi.tables[ticker]; !ok {
		multi.tickers = append(multi.tickers, ticker)
	}

	multi.tables[ticker] = table
}

// Tickers returns the outer index in insertion order.
func (multi *MultiTable) Tickers() []string {
	return multi.tickers
}

// Table returns the table for a ticker, or nil when the ticker is unknown.
func (multi *MultiTable) Table(ticker string) *Table {
	return multi.tables[ticker]
}

// Records flattens the multi-table into CSV-style records with a leading
// ticker column. The header comes from the first table with a non-empty
// period index so that an empty leading table, left by a failed fetch,
// never truncates the period columns; rows from empty tables are padded
// to the header width.
func (multi *MultiTable) Records() [][]string {
	var headerTable *Table
	for _, ticker := range multi.tickers {
		table := multi.tables[ticker]
		if table == nil {
			continue
		}

		if headerTable == nil || len(table.Periods()) > 0 {
			headerTable = table
		}

		if len(table.Periods()) > 0 {
			break
		}
	}

	if headerTable == nil {
		return [][]string{}
	}

	records := make([][]string, 0)
	records = append(records, append([]string{"Ticker"}, headerTable.Records()[0]...))
	width := len(records[0])

	for _, ticker := range multi.tickers {
		table := multi.tables[ticker]
		if table == nil {
			continue
		}

		for recIdx, record := range table.Records() {
			if recIdx == 0 {
				continue
			}

			row := append([]string{ticker}, record...)
			for len(row) < width {
				row = append(row, "")
			}

			records = append(records, row)
		}
	}

	return records
}

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

// Package normalize rewrites provider-specific statement line items onto the
// canonical vocabulary used by the ratio library. The mapping for each
// statement type ships as an embedded CSV and may be replaced with a
// user-edited file to support arbitrary third-party data sources.
package normalize

import (
	"bytes"
	"embed"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/penny-vault/pvratios/data"
	"github.com/rs/zerolog/log"
)

//go:embed defaults/*.csv
var defaultFS embed.FS

var defaultFiles = map[data.StatementType]string{
	data.BalanceSheet:    "defaults/balance.csv",
	data.IncomeStatement: "defaults/income.csv",
	data.CashFlow:        "defaults/cashflow.csv",
}

// mappingRow is one line of a normalization CSV. Canonical is the target
// label; FinancialModelingPrep and Custom are provider-specific source
// labels that map onto it.
type mappingRow struct {
	Canonical string `csv:"Canonical"`
	Provider  string `csv:"FinancialModelingPrep"`
	Custom    string `csv:"Custom"`
}

// Mapping is a many-to-one lookup from provider line-item labels to
// canonical labels for a single statement type.
type Mapping struct {
	statementType data.StatementType
	byProvider    map[string]string
	canonical     []string
}

// DefaultMapping loads the embedded normalization table for a statement
// type.
func DefaultMapping(statementType data.StatementType) (*Mapping, error) {
	fn, ok := defaultFiles[statementType]
	if !ok {
		return nil, fmt.Errorf("no default normalization table for statement type %q", statementType)
	}

	raw, err := defaultFS.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	return parseMapping(statementType, raw)
}

// MappingFromFile loads a user-edited normalization CSV.
func MappingFromFile(statementType data.StatementType, fn string) (*Mapping, error) {
	raw, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("could not read normalization file %s: %w", fn, err)
	}

	return parseMapping(statementType, raw)
}

func parseMapping(statementType data.StatementType, raw []byte) (*Mapping, error) {
	rows := []*mappingRow{}
	if err := gocsv.Unmarshal(bytes.NewReader(raw), &rows); err != nil {
		return nil, fmt.Errorf("could not parse normalization csv: %w", err)
	}

	mapping := &Mapping{
		statementType: statementType,
		byProvider:    make(map[string]string, len(rows)),
	}

	for _, row := range rows {
		if row.Canonical == "" {
			continue
		}

		mapping.canonical = append(mapping.canonical, row.Canonical)

		if row.Provider != "" {
			mapping.byProvider[row.Provider] = row.Canonical
		}

		if row.Custom != "" {
			mapping.byProvider[row.Custom] = row.Canonical
		}
	}

	return mapping, nil
}

// StatementType returns the statement type this mapping applies to.
func (mapping *Mapping) StatementType() data.StatementType {
	return mapping.statementType
}

// Canonical returns the canonical vocabulary in presentation order.
func (mapping *Mapping) Canonical() []string {
	return mapping.canonical
}

// Lookup returns the canonical label for a provider label, if one exists.
func (mapping *Mapping) Lookup(providerLabel string) (string, bool) {
	canonical, ok := mapping.byProvider[providerLabel]
	return canonical, ok
}

// Apply rewrites the row labels of a raw statement table onto the canonical
// vocabulary. Labels with no mapping are retained under their original name
// so that custom ratios can still reference exotic line items; no row is
// ever dropped. The input table is not modified.
func (mapping *Mapping) Apply(raw *data.Table) *data.Table {
	normalized := data.NewTable(raw.Periods())

	unmapped := 0
	for _, label := range raw.Labels() {
		target := label
		if canonical, ok := mapping.byProvider[label]; ok {
			target = canonical
		} else {
			unmapped++
		}

		normalized.MergeRow(target, raw.Row(label))
	}

	if unmapped > 0 {
		log.Debug().Str("StatementType", string(mapping.statementType)).Int("NumUnmapped", unmapped).Msg("statement rows passed through without a canonical mapping")
	}

	return normalized
}

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

// Package library persists normalized statements and computed ratio tables
// to a postgres data library so collection runs accumulate over time.
package library

import (
	"context"
	"math"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/penny-vault/pvratios/data"
	"github.com/rs/zerolog/log"
)

type Library struct {
	DBUrl string
	Name  string
	Owner string

	Pool *pgxpool.Pool
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	myLibrary.Pool.Close()
}

// NewFromDB creates a new library object with values from the database
func NewFromDB(ctx context.Context, dbURL string) (*Library, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	myLibrary := Library{
		DBUrl: dbURL,
		Pool:  pool,
	}

	if err := conn.QueryRow(ctx, "SELECT name, owner FROM library").Scan(&myLibrary.Name, &myLibrary.Owner); err != nil {
		return nil, err
	}

	return &myLibrary, nil
}

// SaveDB creates a new record in the library table for this library
func (myLibrary *Library) SaveDB(ctx context.Context) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `INSERT INTO library ("name", "owner") VALUES ($1, $2)`, myLibrary.Name, myLibrary.Owner)
	return err
}

// SaveRun records a collection run's summary
func (myLibrary *Library) SaveRun(ctx context.Context, summary *data.RunSummary, periodType data.PeriodType) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `INSERT INTO runs ("id", "category", "period_type", "start_time",
"end_time", "num_tickers", "num_failed", "num_observations") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		summary.RunID, summary.Category, string(periodType), summary.StartTime, summary.EndTime,
		summary.NumTickers, summary.NumFailed, summary.NumObservations)
	return err
}

// SaveStatements upserts every cell of a ticker's normalized statements.
// NaN cells are skipped; re-running a collection overwrites prior values.
func (myLibrary *Library) SaveStatements(ctx context.Context, statements *data.Statements, runID uuid.UUID) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	saved := 0
	for _, statementType := range data.StatementTypes {
		table := statements.Statement(statementType)
		if table == nil {
			continue
		}

		for _, label := range table.Labels() {
			series := table.Row(label)
			for idx, period := range table.Periods() {
				value := series.Values[idx]
				if math.IsNaN(value) {
					continue
				}

				_, err = conn.Exec(ctx, `INSERT INTO statements ("ticker", "statement_type",
"line_item", "period_end", "fiscal_year", "quarter", "value", "run_id")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT ON CONSTRAINT statements_pkey DO UPDATE SET value = EXCLUDED.value, run_id = EXCLUDED.run_id`,
					statements.Ticker, string(statementType), label, period.End,
					period.FiscalYear, period.Quarter, value, runID)
				if err != nil {
					return err
				}

				saved++
			}
		}
	}

	log.Debug().Str("Ticker", statements.Ticker).Int("NumCells", saved).Msg("saved statements to library")

	return nil
}

// SaveRatios upserts every cell of a ticker's computed ratio table
func (myLibrary *Library) SaveRatios(ctx context.Context, ticker string, table *data.Table, runID uuid.UUID) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, label := range table.Labels() {
		series := table.Row(label)
		for idx, period := range table.Periods() {
			value := series.Values[idx]
			if math.IsNaN(value) {
				continue
			}

			_, err = conn.Exec(ctx, `INSERT INTO ratio_values ("ticker", "ratio", "period_end", "value", "run_id")
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT ON CONSTRAINT ratio_values_pkey DO UPDATE SET value = EXCLUDED.value, run_id = EXCLUDED.run_id`,
				ticker, label, period.End, value, runID)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// NumRuns returns the total count of collection runs recorded in the database
func (myLibrary *Library) NumRuns(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM runs").Scan(&count)
	return count, err
}

// LastUpdated returns the date that the database was last updated
func (myLibrary *Library) LastUpdated(ctx context.Context) (time.Time, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Release()

	var lastUpdated time.Time
	err = conn.QueryRow(ctx, "SELECT coalesce(max(end_time), '0001-01-01'::timestamp) FROM runs").Scan(&lastUpdated)
	if err != nil {
		return time.Time{}, err
	}

	return lastUpdated, nil
}

// TotalObservations returns the total number of statement and ratio cells in the library
func (myLibrary *Library) TotalObservations(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT (SELECT count(*) FROM statements) + (SELECT count(*) FROM ratio_values)").Scan(&count)
	return count, err
}

// TrackedTickers returns the distinct tickers with saved statements
func (myLibrary *Library) TrackedTickers(ctx context.Context) ([]string, error) {
	var tickers []string
	err := pgxscan.Select(ctx, myLibrary.Pool, &tickers,
		"SELECT DISTINCT ticker FROM statements ORDER BY ticker")
	return tickers, err
}

// Runs returns recorded collection runs, most recent first
func (myLibrary *Library) Runs(ctx context.Context) ([]*Run, error) {
	var runs []*Run
	err := pgxscan.Select(ctx, myLibrary.Pool, &runs,
		`SELECT id, category, period_type, start_time, end_time, num_tickers, num_failed,
num_observations FROM runs ORDER BY start_time DESC`)
	for _, run := range runs {
		run.Library = myLibrary
	}
	return runs, err
}

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
package library

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run is a recorded collection run: one invocation of the toolkit over a
// set of tickers for one ratio category.
type Run struct {
	ID         uuid.UUID
	Category   string
	PeriodType string

	StartTime time.Time
	EndTime   time.Time

	NumTickers      int
	NumFailed       int
	NumObservations int

	Library *Library `db:"-"`
}

// Elapsed returns how long the run took
func (run *Run) Elapsed() time.Duration {
	return run.EndTime.Sub(run.StartTime)
}

// Delete removes the run record along with the statement and ratio cells it
// produced
func (run *Run) Delete(ctx context.Context) error {
	conn, err := run.Library.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	for _, stmt := range []string{
		"DELETE FROM ratio_values WHERE run_id = $1",
		"DELETE FROM statements WHERE run_id = $1",
		"DELETE FROM runs WHERE id = $1",
	} {
		if _, err := tx.Exec(ctx, stmt, run.ID); err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				return rollbackErr
			}

			return err
		}
	}

	return tx.Commit(ctx)
}

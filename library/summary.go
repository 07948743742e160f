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
	"fmt"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the library in markdown
func (myLibrary *Library) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString(fmt.Sprintf("# %s\n", myLibrary.Name)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Details\n\n"); err != nil {
		return "", err
	}

	// Database connection string
	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", myLibrary.DBUrl)); err != nil {
		return "", err
	}

	// Number of collection runs
	numRuns, err := myLibrary.NumRuns(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Num Runs: %d\n", numRuns)); err != nil {
		return "", err
	}

	// Tracked tickers
	tickers, err := myLibrary.TrackedTickers(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Tickers Tracked: %d\n", len(tickers))); err != nil {
		return "", err
	}

	// Total observation count
	totalObservations, err := myLibrary.TotalObservations(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Total Observations: %d\n\n", totalObservations)); err != nil {
		return "", err
	}

	// Last updated time
	lastUpdated, err := myLibrary.LastUpdated(ctx)
	if err != nil {
		return "", err
	}

	age := timeago.English.Format(lastUpdated)

	if lastUpdated.Equal(time.Time{}) {
		if _, err := builder.WriteString("Last Updated: Never\n\n"); err != nil {
			return "", err
		}
	} else {
		if _, err := builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n\n", age, lastUpdated.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	// Recent runs
	if _, err := builder.WriteString("## Recent Runs\n\n"); err != nil {
		return "", err
	}

	runs, err := myLibrary.Runs(ctx)
	if err != nil {
		return "", err
	}

	for idx, run := range runs {
		if idx >= 10 {
			break
		}

		elapsed := durafmt.Parse(run.Elapsed()).LimitFirstN(2)
		if _, err := builder.WriteString(p.Sprintf("  * %s %s: %d tickers, %d failed, %d observations in %s [%s]\n",
			run.StartTime.Local().Format("01/02/2006"), run.Category, run.NumTickers, run.NumFailed,
			run.NumObservations, elapsed, run.ID.String()[:6])); err != nil {
			return "", err
		}
	}

	if len(runs) == 0 {
		if _, err := builder.WriteString("  * No runs recorded\n"); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}

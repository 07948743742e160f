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
	"fmt"
	"time"
)

type PeriodType string

const (
	Annual    PeriodType = "annual"
	Quarterly PeriodType = "quarter"
)

// Period identifies a single reporting period of a financial statement. The
// End date is the fiscal period end as reported by the provider and is the
// sole key used when aligning series; FiscalYear and Quarter are display
// metadata derived from the provider response.
type Period struct {
	End        time.Time
	FiscalYear int
	Quarter    int // 0 for annual periods
}

// ParsePeriod builds a Period from a provider date string (YYYY-MM-DD) and
// period label (FY, Q1..Q4).
func ParsePeriod(date string, label string) (Period, error) {
	end, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Period{}, fmt.Errorf("could not parse period end date %q: %w", date, err)
	}

	period := Period{
		End:        end,
		FiscalYear: end.Year(),
	}

	switch label {
	case "", "FY":
		period.Quarter = 0
	case "Q1":
		period.Quarter = 1
	case "Q2":
		period.Quarter = 2
	case "Q3":
		period.Quarter = 3
	case "Q4":
		period.Quarter = 4
	default:
		return Period{}, fmt.Errorf("unrecognized period label %q", label)
	}

	return period, nil
}

func (period Period) String() string {
	if period.Quarter == 0 {
		return fmt.Sprintf("%d", period.FiscalYear)
	}

	return fmt.Sprintf("%dQ%d", period.FiscalYear, period.Quarter)
}

// Before reports whether the period ends strictly before other. Column order
// in statement tables is chronological by period end.
func (period Period) Before(other Period) bool {
	return period.End.Before(other.End)
}

func (period Period) Equal(other Period) bool {
	return period.End.Equal(other.End)
}

// InRange reports whether the period end falls within [start, end]. A zero
// start or end leaves that side of the range unbounded.
func (period Period) InRange(start, end time.Time) bool {
	if !start.IsZero() && period.End.Before(start) {
		return false
	}

	if !end.IsZero() && period.End.After(end) {
		return false
	}

	return true
}

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
)

// Series is a single numeric time series aligned to an ordered set of
// reporting periods. Missing observations are represented as NaN; every
// arithmetic operation propagates NaN rather than raising an error so that
// a complete table can always be rendered.
type Series struct {
	Periods []Period
	Values  []float64
}

// NewSeries creates a series with every value set to NaN.
func NewSeries(periods []Period) Series {
	values := make([]float64, len(periods))
	for idx := range values {
		values[idx] = math.NaN()
	}

	return Series{Periods: periods, Values: values}
}

// At returns the value for the given period, or NaN when the period is not
// part of the series index.
func (series Series) At(period Period) float64 {
	for idx, p := range series.Periods {
		if p.Equal(period) {
			return series.Values[idx]
		}
	}

	return math.NaN()
}

// Len returns the number of periods in the series.
func (series Series) Len() int {
	return len(series.Periods)
}

func (series Series) apply(other Series, op func(a, b float64) float64) Series {
	result := NewSeries(series.Periods)
	for idx, period := range series.Periods {
		result.Values[idx] = op(series.Values[idx], other.At(period))
	}

	return result
}

// Add returns the element-wise sum of two series aligned on the receiver's
// period index.
func (series Series) Add(other Series) Series {
	return series.apply(other, func(a, b float64) float64 { return a + b })
}

// Sub returns the element-wise difference of two series.
func (series Series) Sub(other Series) Series {
	return series.apply(other, func(a, b float64) float64 { return a - b })
}

// Mul returns the element-wise product of two series.
func (series Series) Mul(other Series) Series {
	return series.apply(other, func(a, b float64) float64 { return a * b })
}

// Div returns the element-wise quotient of two series. A zero or NaN
// denominator yields NaN at that period.
func (series Series) Div(other Series) Series {
	return series.apply(other, SafeDiv)
}

// AddScalar returns the series shifted by a constant.
func (series Series) AddScalar(v float64) Series {
	result := NewSeries(series.Periods)
	for idx := range series.Values {
		result.Values[idx] = series.Values[idx] + v
	}

	return result
}

// MulScalar returns the series scaled by a constant.
func (series Series) MulScalar(v float64) Series {
	result := NewSeries(series.Periods)
	for idx := range series.Values {
		result.Values[idx] = series.Values[idx] * v
	}

	return result
}

// Neg returns the series with every value negated.
func (series Series) Neg() Series {
	return series.MulScalar(-1)
}

// Lag returns the series shifted forward by n periods; the first n slots are
// NaN because no prior history exists for them.
func (series Series) Lag(n int) Series {
	result := NewSeries(series.Periods)
	for idx := range series.Values {
		if idx-n >= 0 {
			result.Values[idx] = series.Values[idx-n]
		}
	}

	return result
}

// Growth returns the one-period fractional change of the series. A series of
// N periods yields N-1 growth observations; the first slot is always NaN.
func (series Series) Growth() Series {
	return series.GrowthLag(1)
}

// GrowthLag returns the fractional change measured against the value n
// periods earlier.
func (series Series) GrowthLag(n int) Series {
	prior := series.Lag(n)
	result := NewSeries(series.Periods)
	for idx := range series.Values {
		result.Values[idx] = SafeDiv(series.Values[idx]-prior.Values[idx], prior.Values[idx])
	}

	return result
}

// CAGR returns the compound annual growth rate measured over a trailing
// window of n periods. Negative bases yield NaN.
func (series Series) CAGR(n int) Series {
	prior := series.Lag(n)
	result := NewSeries(series.Periods)
	for idx := range series.Values {
		ratio := SafeDiv(series.Values[idx], prior.Values[idx])
		if math.IsNaN(ratio) || ratio < 0 {
			result.Values[idx] = math.NaN()
			continue
		}

		result.Values[idx] = math.Pow(ratio, 1/float64(n)) - 1
	}

	return result
}

// Average returns the two-period rolling mean of the series, commonly used
// for balance sheet items in return calculations. The first period falls
// back to the period's own value since no prior balance exists.
func (series Series) Average() Series {
	result := NewSeries(series.Periods)
	for idx := range series.Values {
		if idx == 0 {
			result.Values[idx] = series.Values[idx]
			continue
		}

		result.Values[idx] = (series.Values[idx] + series.Values[idx-1]) / 2
	}

	return result
}

// SafeDiv divides a by b, propagating NaN for zero or NaN denominators and
// NaN numerators.
func SafeDiv(a, b float64) float64 {
	if b == 0 || math.IsNaN(b) || math.IsNaN(a) {
		return math.NaN()
	}

	return a / b
}

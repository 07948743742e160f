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

// Profile holds descriptive company information from the fundamentals
// provider.
type Profile struct {
	Ticker       string  `json:"symbol"`
	CompanyName  string  `json:"companyName"`
	Currency     string  `json:"currency"`
	Exchange     string  `json:"exchangeShortName"`
	Industry     string  `json:"industry"`
	Sector       string  `json:"sector"`
	Country      string  `json:"country"`
	Description  string  `json:"description"`
	Website      string  `json:"website"`
	CEO          string  `json:"ceo"`
	IPODate      string  `json:"ipoDate"`
	Beta         float64 `json:"beta"`
	Price        float64 `json:"price"`
	MarketCap    float64 `json:"mktCap"`
	LastDividend float64 `json:"lastDiv"`
	IsEtf        bool    `json:"isEtf"`
	IsFund       bool    `json:"isFund"`
	Active       bool    `json:"isActivelyTrading"`
}

// Quote holds a real-time quote snapshot from the fundamentals provider.
type Quote struct {
	Ticker            string  `json:"symbol"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangePercent     float64 `json:"changesPercentage"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	YearLow           float64 `json:"yearLow"`
	YearHigh          float64 `json:"yearHigh"`
	MarketCap         float64 `json:"marketCap"`
	Volume            float64 `json:"volume"`
	AvgVolume         float64 `json:"avgVolume"`
	Open              float64 `json:"open"`
	PreviousClose     float64 `json:"previousClose"`
	EPS               float64 `json:"eps"`
	PE                float64 `json:"pe"`
	SharesOutstanding float64 `json:"sharesOutstanding"`
}

package model

import "github.com/shopspring/decimal"

func init() {
	// The API exchanges amounts as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Hundred is used to turn ratios into percentages.
var Hundred = decimal.NewFromInt(100)

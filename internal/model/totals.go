// internal/model/totals.go
package model

import "github.com/shopspring/decimal"

// TransactionTotals holds the monetary summary of a receipt.
// Optional fields stay invalid until supplied or reconciled.
type TransactionTotals struct {
	ItemsTotal decimal.Decimal     `json:"items_total"`
	Discount   decimal.NullDecimal `json:"discount"`
	Total      decimal.NullDecimal `json:"total"`
	Received   decimal.NullDecimal `json:"received"`
	Change     decimal.NullDecimal `json:"change"`
}

// Some wraps a decimal as a present optional value
func Some(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// None is an absent optional value
func None() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

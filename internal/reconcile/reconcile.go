// internal/reconcile/reconcile.go
package reconcile

import (
	"github.com/shopspring/decimal"

	"receipt-service/internal/model"
)

// Input carries the caller supplied transaction fields, each optional
type Input struct {
	Discount decimal.NullDecimal
	Total    decimal.NullDecimal
	Received decimal.NullDecimal
	Change   decimal.NullDecimal
}

// FromTotals turns a reconciled record back into an Input
func FromTotals(t model.TransactionTotals) Input {
	return Input{
		Discount: t.Discount,
		Total:    t.Total,
		Received: t.Received,
		Change:   t.Change,
	}
}

// Reconcile validates that there is something to compute from and completes
// the transaction fields. It fails only when there are no items and no total.
func Reconcile(items []model.LineItem, in Input) (model.TransactionTotals, error) {
	if len(items) == 0 && !in.Total.Valid {
		return model.TransactionTotals{}, model.NewValidationError("items", "no items and no total supplied")
	}
	return Complete(model.ItemsTotal(items), in), nil
}

// Complete applies the precedence rules in order. Signs are never checked:
// a negative total or change passes through unchanged.
func Complete(itemsTotal decimal.Decimal, in Input) model.TransactionTotals {
	out := model.TransactionTotals{
		ItemsTotal: itemsTotal,
		Discount:   in.Discount,
		Total:      in.Total,
		Received:   in.Received,
		Change:     in.Change,
	}

	if !out.Total.Valid {
		if out.Discount.Valid {
			out.Total = model.Some(itemsTotal.Sub(out.Discount.Decimal))
		} else {
			out.Total = model.Some(itemsTotal)
		}
	}
	// discount is inferred against the total as it stood before the override
	derived := out.Total.Decimal

	if out.Received.Valid && !out.Change.Valid {
		out.Change = model.Some(out.Received.Decimal.Sub(out.Total.Decimal))
	}
	if out.Change.Valid && !out.Received.Valid {
		out.Received = model.Some(out.Total.Decimal.Add(out.Change.Decimal))
	}

	if out.Received.Valid && out.Change.Valid {
		out.Total = model.Some(out.Received.Decimal.Sub(out.Change.Decimal))
		if !out.Discount.Valid {
			out.Discount = model.Some(itemsTotal.Sub(derived))
		}
	}

	return out
}

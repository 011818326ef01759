// internal/payload/payload.go
package payload

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"receipt-service/internal/model"
	"receipt-service/internal/reconcile"
)

// Overrides replace configured layout values for a single request.
// Empty strings and zero scales leave the configuration in place.
type Overrides struct {
	HeaderTitle       string `json:"header_title"`
	HeaderDescription string `json:"header_description"`
	ReceiptTitle      string `json:"receipt_title"`
	FooterLabel       string `json:"footer_label"`
	HeaderImage       string `json:"header_image"`
	FooterImage       string `json:"footer_image"`
	HeaderImageScale  int    `json:"header_image_scale" validate:"gte=0,lte=100"`
	FooterImageScale  int    `json:"footer_image_scale" validate:"gte=0,lte=100"`
}

// Receipt is a parsed print request
type Receipt struct {
	HeaderFields model.Fields
	FooterFields model.Fields
	Items        []model.LineItem
	Transaction  reconcile.Input
	Overrides    Overrides
	// Queue is a PORT:NAME override of the configured queue
	Queue string
}

type itemWire struct {
	Name     *string          `json:"name" validate:"required"`
	Amount   *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	Quantity *decimal.Decimal `json:"quantity" validate:"required,gte=0"`
}

type transactionWire struct {
	Received decimal.NullDecimal `json:"received"`
	Change   decimal.NullDecimal `json:"change"`
	Discount decimal.NullDecimal `json:"discount"`
	Total    decimal.NullDecimal `json:"total"`
}

type requestWire struct {
	HeaderInfo      model.Fields    `json:"header_info"`
	FooterInfo      model.Fields    `json:"footer_info"`
	Items           []itemWire      `json:"items" validate:"required,dive"`
	TransactionInfo transactionWire `json:"transaction_info"`
	Queue           string          `json:"queue"`
	Overrides
}

type legacyWire struct {
	Customer    model.Fields        `json:"customer"`
	Transection json.RawMessage     `json:"transection"`
	Promotion   json.RawMessage     `json:"promotion"`
	Points      json.RawMessage     `json:"points"`
	Total       decimal.NullDecimal `json:"total"`
	Extras      transactionWire     `json:"extras"`
}

var legacyKeys = []string{"customer", "transection", "promotion", "points", "extras"}

// Parse decodes a print request body. Bodies carrying any of the legacy
// top-level keys are converted to the current shape first.
func Parse(body []byte) (*Receipt, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, model.NewValidationError("body", "must be a JSON object: %v", err)
	}

	var req requestWire
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, decodeError(err)
	}
	if err := validate.Struct(&req); err != nil {
		return nil, translate(err)
	}

	if isLegacy(keys) {
		if err := applyLegacy(body, &req); err != nil {
			return nil, err
		}
	}

	items := make([]model.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.LineItem{Name: *it.Name, UnitPrice: *it.Amount, Quantity: *it.Quantity})
	}

	return &Receipt{
		HeaderFields: req.HeaderInfo,
		FooterFields: req.FooterInfo,
		Items:        items,
		Transaction: reconcile.Input{
			Discount: req.TransactionInfo.Discount,
			Total:    req.TransactionInfo.Total,
			Received: req.TransactionInfo.Received,
			Change:   req.TransactionInfo.Change,
		},
		Overrides: req.Overrides,
		Queue:     req.Queue,
	}, nil
}

func isLegacy(keys map[string]json.RawMessage) bool {
	for _, k := range legacyKeys {
		if _, ok := keys[k]; ok {
			return true
		}
	}
	return false
}

// applyLegacy maps customer, transection, promotion, points, total and
// extras onto the current sections
func applyLegacy(body []byte, req *requestWire) error {
	var legacy legacyWire
	if err := json.Unmarshal(body, &legacy); err != nil {
		return decodeError(err)
	}

	header := model.Fields{}
	for _, f := range legacy.Customer {
		header = append(header, model.Field{Key: "Customer " + capitalize(f.Key), Value: f.Value})
	}
	if err := setScalar(&header, "Transaction", "transection", legacy.Transection); err != nil {
		return err
	}
	if err := setScalar(&header, "Promotion", "promotion", legacy.Promotion); err != nil {
		return err
	}
	req.HeaderInfo = header

	footer := model.Fields{}
	if err := setScalar(&footer, "Points", "points", legacy.Points); err != nil {
		return err
	}
	req.FooterInfo = footer

	tx := legacy.Extras
	if legacy.Total.Valid && !tx.Total.Valid {
		tx.Total = legacy.Total
	}
	req.TransactionInfo = tx
	return nil
}

func setScalar(fields *model.Fields, key, source string, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	value, err := model.ScalarText(raw)
	if err != nil {
		return model.NewValidationError(source, "%v", err)
	}
	fields.Set(key, value)
	return nil
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
}

func decodeError(err error) error {
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok && typeErr.Field != "" {
		return model.NewValidationError(typeErr.Field, "must be %s", typeErr.Type)
	}
	return model.NewValidationError("body", "%v", fmt.Errorf("decode: %w", err))
}

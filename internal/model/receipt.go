// internal/model/receipt.go
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is a single priced row on a receipt
type LineItem struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"amount"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// LineTotal returns unit price times quantity, unrounded
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(li.Quantity)
}

// ItemsTotal sums the line totals of all items
func ItemsTotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Field is one key/value line of a header or footer block
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fields keeps key/value pairs in the order they were supplied.
// It decodes from a JSON object and encodes back to one.
type Fields []Field

// Get returns the value stored under key
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing key or appends a new pair
func (f *Fields) Set(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}

// UnmarshalJSON decodes a JSON object preserving key order.
// Scalar values are kept as their literal text, null becomes "".
func (f *Fields) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields must be a JSON object")
	}

	out := Fields{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		value, err := ScalarText(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out = append(out, Field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = out
	return nil
}

// MarshalJSON encodes the pairs as a JSON object in stored order
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ScalarText renders a JSON scalar as text: strings unquoted, numbers and
// booleans verbatim, null as "". Objects and arrays are rejected.
func ScalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("nested values are not supported")
	default:
		return strings.TrimSpace(string(trimmed)), nil
	}
}

// ImageRef points at an image asset plus its width as a percentage of the paper
type ImageRef struct {
	Path  string `json:"path"`
	Scale int    `json:"scale"`
}

// ReceiptContent is everything printed on a receipt apart from the totals
type ReceiptContent struct {
	HeaderFields      Fields     `json:"header_info"`
	Items             []LineItem `json:"items"`
	FooterFields      Fields     `json:"footer_info"`
	HeaderTitle       string     `json:"header_title,omitempty"`
	HeaderDescription string     `json:"header_description,omitempty"`
	ReceiptTitle      string     `json:"receipt_title,omitempty"`
	FooterLabel       string     `json:"footer_label,omitempty"`
	HeaderImage       *ImageRef  `json:"header_image,omitempty"`
	FooterImage       *ImageRef  `json:"footer_image,omitempty"`
}

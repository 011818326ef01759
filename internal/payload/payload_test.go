package payload

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receipt-service/internal/model"
)

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	assert.Equal(t, field, verr.Field)
}

func TestParseCurrentFormat(t *testing.T) {
	body := `{
		"header_info": {"Customer Name": "Somchai", "Customer Code": "CT-9904", "Transaction": 1234},
		"items": [
			{"name": "Gasoline 95", "amount": 40.5, "quantity": 30},
			{"name": "Water Bottle", "amount": "10.00", "quantity": 1}
		],
		"footer_info": {"Points": "150"},
		"transaction_info": {"received": 1300.0, "change": null},
		"header_title": "PTT Station",
		"footer_image": "footer.png",
		"footer_image_scale": 60,
		"queue": "USB001:XP-58"
	}`

	r, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, model.Fields{
		{Key: "Customer Name", Value: "Somchai"},
		{Key: "Customer Code", Value: "CT-9904"},
		{Key: "Transaction", Value: "1234"},
	}, r.HeaderFields)
	assert.Equal(t, model.Fields{{Key: "Points", Value: "150"}}, r.FooterFields)

	require.Len(t, r.Items, 2)
	assert.Equal(t, "Gasoline 95", r.Items[0].Name)
	assert.True(t, r.Items[0].UnitPrice.Equal(decimal.RequireFromString("40.5")))
	assert.True(t, r.Items[1].UnitPrice.Equal(decimal.RequireFromString("10")))

	assert.True(t, r.Transaction.Received.Valid)
	assert.True(t, r.Transaction.Received.Decimal.Equal(decimal.NewFromInt(1300)))
	assert.False(t, r.Transaction.Change.Valid)
	assert.False(t, r.Transaction.Total.Valid)

	assert.Equal(t, "PTT Station", r.Overrides.HeaderTitle)
	assert.Equal(t, "footer.png", r.Overrides.FooterImage)
	assert.Equal(t, 60, r.Overrides.FooterImageScale)
	assert.Equal(t, "USB001:XP-58", r.Queue)
}

func TestParseLegacyFormat(t *testing.T) {
	body := `{
		"customer": {"name": "Somchai", "CODE": "CT-9904"},
		"transection": "TXN-1234",
		"promotion": "Double points",
		"points": 150,
		"items": [{"name": "Gasohol 95", "amount": 38.25, "quantity": 10}],
		"total": 372.50,
		"extras": {"received": 500, "change": 127.5, "note": "ignored"}
	}`

	r, err := Parse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, model.Fields{
		{Key: "Customer Name", Value: "Somchai"},
		{Key: "Customer Code", Value: "CT-9904"},
		{Key: "Transaction", Value: "TXN-1234"},
		{Key: "Promotion", Value: "Double points"},
	}, r.HeaderFields)
	assert.Equal(t, model.Fields{{Key: "Points", Value: "150"}}, r.FooterFields)

	require.True(t, r.Transaction.Total.Valid)
	assert.True(t, r.Transaction.Total.Decimal.Equal(decimal.RequireFromString("372.5")))
	assert.True(t, r.Transaction.Received.Decimal.Equal(decimal.NewFromInt(500)))
	assert.True(t, r.Transaction.Change.Decimal.Equal(decimal.RequireFromString("127.5")))
}

func TestParseLegacyWithoutTotal(t *testing.T) {
	r, err := Parse([]byte(`{"points": "20", "items": [{"name": "A", "amount": 1, "quantity": 1}]}`))
	require.NoError(t, err)

	assert.Empty(t, r.HeaderFields)
	assert.Equal(t, model.Fields{{Key: "Points", Value: "20"}}, r.FooterFields)
	assert.False(t, r.Transaction.Total.Valid)
}

func TestParseItemValidation(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
	}{
		"missing name":      {`{"items": [{"amount": 1, "quantity": 1}]}`, "items[0].name"},
		"missing amount":    {`{"items": [{"name": "A", "quantity": 1}]}`, "items[0].amount"},
		"missing quantity":  {`{"items": [{"name": "A", "amount": 1}, {"name": "B", "amount": 1}]}`, "items[0].quantity"},
		"negative amount":   {`{"items": [{"name": "A", "amount": -1, "quantity": 1}]}`, "items[0].amount"},
		"negative quantity": {`{"items": [{"name": "A", "amount": 1, "quantity": 1}, {"name": "B", "amount": 1, "quantity": -2}]}`, "items[1].quantity"},
		"scale above 100":   {`{"items": [], "header_image_scale": 150}`, "header_image_scale"},
		"missing items":     {`{"header_info": {"Cashier": "Ann"}}`, "items"},
		"null items":        {`{"items": null, "transaction_info": {"total": 5}}`, "items"},
		"legacy no items":   {`{"customer": {"name": "Somchai"}, "total": 10}`, "items"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.body))
			requireValidation(t, err, tc.field)
		})
	}
}

func TestParseEmptyItemsWithTotal(t *testing.T) {
	r, err := Parse([]byte(`{"items": [], "transaction_info": {"total": "5.00"}}`))
	require.NoError(t, err)
	assert.Empty(t, r.Items)
	assert.True(t, r.Transaction.Total.Valid)
}

func TestParseZeroPriceIsAllowed(t *testing.T) {
	r, err := Parse([]byte(`{"items": [{"name": "Free refill", "amount": 0, "quantity": 1}]}`))
	require.NoError(t, err)
	assert.True(t, r.Items[0].UnitPrice.IsZero())
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`[1, 2]`))
	requireValidation(t, err, "body")

	_, err = Parse([]byte(`{"items": "none"}`))
	requireValidation(t, err, "items")

	_, err = Parse([]byte(`{"header_info": {"nested": {"a": 1}}}`))
	requireValidation(t, err, "body")

	_, err = Parse([]byte(`{"transaction_info": {"total": "lots"}}`))
	requireValidation(t, err, "body")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Name", capitalize("name"))
	assert.Equal(t, "Code", capitalize("CODE"))
	assert.Equal(t, "", capitalize(""))
}

// Package orders covers the admin side of the ordering flow: reading the
// remote order list, grouping it by day and the detail/delete workflow.
package orders

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrNothingToDelete  = errors.New("no order awaiting delete confirmation")
	ErrMissingTable     = errors.New("missing table")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrStoreUnavailable = errors.New("order store not configured")
)

// OrderItem is a line of a placed order.
type OrderItem struct {
	ItemID string  `json:"item_id"`
	Name   string  `json:"name"`
	Qty    int     `json:"qty"`
	Price  float64 `json:"price"`
}

// Subtotal is Qty times Price.
func (i OrderItem) Subtotal() float64 {
	return float64(i.Qty) * i.Price
}

// Order is a read-only snapshot of an order held by the remote store.
// TotalQty and TotalPrice are the aggregates stored at submission time.
type Order struct {
	ID         string      `json:"id"`
	Table      string      `json:"table"`
	Items      []OrderItem `json:"items"`
	TotalQty   int         `json:"total_qty"`
	TotalPrice float64     `json:"total_price"`
	Note       string      `json:"note,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ComputedTotals sums the line items.
func (o Order) ComputedTotals() (qty int, price float64) {
	for _, item := range o.Items {
		qty += item.Qty
		price += item.Subtotal()
	}
	return qty, price
}

// Consistent reports whether the stored aggregates match the line items.
func (o Order) Consistent() bool {
	qty, price := o.ComputedTotals()
	return qty == o.TotalQty && price == o.TotalPrice
}

// tableRef accepts a table identifier sent either as a string or a number.
type tableRef string

func (t *tableRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = tableRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("table must be a string or a number")
	}
	*t = tableRef(n.String())
	return nil
}

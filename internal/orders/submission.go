package orders

import (
	"strings"

	"github.com/appetiteclub/tableside/internal/cart"
)

// Submission is a cart turned into an order request. Aggregates are fixed
// here and never recomputed downstream.
type Submission struct {
	Table      string
	Note       string
	Items      []OrderItem
	TotalQty   int
	TotalPrice float64
}

func NewSubmission(table, note string, lines []cart.Line) (Submission, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return Submission{}, ErrMissingTable
	}
	if len(lines) == 0 {
		return Submission{}, ErrEmptyCart
	}

	sub := Submission{
		Table: table,
		Note:  strings.TrimSpace(note),
		Items: make([]OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		sub.Items = append(sub.Items, OrderItem{
			ItemID: line.ItemID,
			Name:   line.Name,
			Qty:    line.Qty,
			Price:  line.Price,
		})
		sub.TotalQty += line.Qty
		sub.TotalPrice += line.Subtotal()
	}

	return sub, nil
}

package orders

import (
	"errors"
	"testing"

	"github.com/appetiteclub/tableside/internal/cart"
)

func TestNewSubmission(t *testing.T) {
	lines := []cart.Line{
		{ItemID: "dosa", Name: "Masala Dosa", Price: 100, Qty: 2},
		{ItemID: "coffee", Name: "Filter Coffee", Price: 40, Qty: 3},
	}

	tests := []struct {
		name    string
		table   string
		note    string
		lines   []cart.Line
		wantErr error
	}{
		{name: "valid", table: "4", note: "  less spicy ", lines: lines},
		{name: "missingTable", table: "   ", lines: lines, wantErr: ErrMissingTable},
		{name: "emptyCart", table: "4", lines: nil, wantErr: ErrEmptyCart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := NewSubmission(tt.table, tt.note, tt.lines)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewSubmission() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if sub.Table != "4" {
				t.Errorf("Table = %q, want 4", sub.Table)
			}
			if sub.Note != "less spicy" {
				t.Errorf("Note = %q, want trimmed note", sub.Note)
			}
			if sub.TotalQty != 5 {
				t.Errorf("TotalQty = %d, want 5", sub.TotalQty)
			}
			if sub.TotalPrice != 320 {
				t.Errorf("TotalPrice = %v, want 320", sub.TotalPrice)
			}
			if len(sub.Items) != 2 || sub.Items[1].ItemID != "coffee" {
				t.Errorf("Items = %+v, want lines in cart order", sub.Items)
			}
		})
	}
}

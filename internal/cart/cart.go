// Package cart holds the items a customer selected during the current
// session. A single *Cart is shared by every view of the session, so a
// mutation is visible to all readers at once.
package cart

import (
	"errors"
	"sync"

	"github.com/appetiteclub/tableside/internal/catalog"
)

var ErrAlreadyInCart = errors.New("item already in cart")

// Line is one distinct menu item and its selected quantity. Qty is always
// at least 1; a line that reaches 0 is removed.
type Line struct {
	ItemID string  `json:"item_id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Qty    int     `json:"qty"`
}

// Subtotal is Price times Qty.
func (l Line) Subtotal() float64 {
	return l.Price * float64(l.Qty)
}

type Cart struct {
	mu    sync.RWMutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add inserts item at quantity 1. Use Increase for items already present.
func (c *Cart) Add(item catalog.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(item.ID) >= 0 {
		return ErrAlreadyInCart
	}

	c.lines = append(c.lines, Line{
		ItemID: item.ID,
		Name:   item.Name,
		Price:  item.Price,
		Qty:    1,
	})
	return nil
}

// AddOrIncrease adds item when it is not selected yet, otherwise bumps its
// quantity.
func (c *Cart) AddOrIncrease(item catalog.Item) {
	if err := c.Add(item); errors.Is(err, ErrAlreadyInCart) {
		c.Increase(item.ID)
	}
}

// Increase bumps the quantity of itemID. Absent items are ignored.
func (c *Cart) Increase(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(itemID); i >= 0 {
		c.lines[i].Qty++
	}
}

// Decrease lowers the quantity of itemID, dropping the line at zero.
// Absent items are ignored.
func (c *Cart) Decrease(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return
	}

	c.lines[i].Qty--
	if c.lines[i].Qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Qty returns the selected quantity of itemID, 0 when unselected.
func (c *Cart) Qty(itemID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(itemID); i >= 0 {
		return c.lines[i].Qty
	}
	return 0
}

// Lines returns a copy of the lines in selection order.
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

func (c *Cart) TotalPrice() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total float64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

func (c *Cart) TotalQty() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int
	for _, line := range c.lines {
		total += line.Qty
	}
	return total
}

// Clear empties the cart after a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) indexOf(itemID string) int {
	for i, line := range c.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

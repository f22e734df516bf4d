package cart

import "math"

// Line is a single product entry in a cart. Name, price and image are display
// snapshots taken when the product was added; they are not re-fetched.
type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Cart holds the lines of a single browsing session in insertion order.
// It is owned by exactly one session and is not safe for concurrent use;
// Store serializes access per session.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{lines: make([]Line, 0)}
}

// AddItem appends the line with quantity 1, or bumps the quantity when a line
// with the same product already exists.
func (c *Cart) AddItem(line Line) {
	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity++
			return
		}
	}
	line.Quantity = 1
	c.lines = append(c.lines, line)
}

// UpdateQuantity sets the line's quantity. Anything below 1 removes the line
// instead of storing a zero or negative quantity. Unknown IDs are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem deletes the line if present, preserving the order of the rest.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

// Total sums unitPrice×quantity over all lines and rounds once to currency
// precision. Rounding only the final sum avoids compounding per-line error.
func (c *Cart) Total() float64 {
	sum := 0.0
	for _, line := range c.lines {
		sum += line.UnitPrice * float64(line.Quantity)
	}
	return math.Round(sum*100) / 100
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

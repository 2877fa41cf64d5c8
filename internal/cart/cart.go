package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. Lines are identified by the (ProductID, Size,
// Color) tuple when merging.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     *string         `json:"image,omitempty"`
	Size      *string         `json:"size,omitempty"`
	Color     *string         `json:"color,omitempty"`
}

// LineTotal returns price multiplied by quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) sameIdentity(other Line) bool {
	return l.ProductID == other.ProductID &&
		strPtrEqual(l.Size, other.Size) &&
		strPtrEqual(l.Color, other.Color)
}

// Cart holds the in-progress selection. Total and ItemCount are recomputed
// after every mutation so they are never stale.
type Cart struct {
	Lines     []Line          `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Total: decimal.Zero}
}

// AddItem merges the line into the cart by (ProductID, Size, Color). An
// existing line has its quantity incremented; otherwise the line is appended.
// A non-positive quantity on the input defaults to 1.
func (c *Cart) AddItem(line Line, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	for i := range c.Lines {
		if c.Lines[i].sameIdentity(line) {
			c.Lines[i].Quantity += quantity
			c.recompute()
			return
		}
	}
	line.Quantity = quantity
	c.Lines = append(c.Lines, line)
	c.recompute()
}

// RemoveItem deletes every line matching the product id. The identity key
// here is the product id alone, not the full (id, size, color) tuple; a
// product carried in several size/color lines loses all of them at once.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	kept := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	c.Lines = kept
	c.recompute()
}

// UpdateQuantity sets the quantity for the line matching the product id,
// removing the line entirely when the new quantity is zero or below.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
		}
	}
	c.recompute()
}

// Clear resets the cart to empty.
func (c *Cart) Clear() {
	c.Lines = nil
	c.recompute()
}

func (c *Cart) recompute() {
	total := decimal.Zero
	count := 0
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal())
		count += line.Quantity
	}
	c.Total = total
	c.ItemCount = count
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

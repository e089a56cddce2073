package cart

import (
	"errors"
	"sync"

	"tiffinbox/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrWrongVendor      = errors.New("menu item belongs to a different vendor")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// Line is one selected menu item with its quantity. A line with quantity
// zero is never stored; setting zero removes the line.
type Line struct {
	Item     domain.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
}

// Cart holds the selection for exactly one vendor. The vendor id is fixed at
// construction, so a mixed-vendor cart cannot be built.
type Cart struct {
	vendorID string
	lines    []Line
}

func New(vendorID string) *Cart {
	return &Cart{vendorID: vendorID}
}

func (c *Cart) VendorID() string {
	return c.vendorID
}

// SetQuantity inserts, replaces or removes the line for item. Quantity zero
// removes it regardless of prior presence.
func (c *Cart) SetQuantity(item domain.MenuItem, quantity int) error {
	if item.VendorID != c.vendorID {
		return ErrWrongVendor
	}
	if quantity < 0 {
		return ErrNegativeQuantity
	}

	for i, line := range c.lines {
		if line.Item.ID != item.ID {
			continue
		}
		if quantity == 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return nil
	}

	if quantity > 0 {
		c.lines = append(c.lines, Line{Item: item, Quantity: quantity})
	}
	return nil
}

// Lines returns the current selection in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Subtotal sums price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// Store keeps per-session carts in memory. State is volatile: a restart
// drops every cart, which matches the per-browsing-session lifetime.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

func key(sessionID, vendorID string) string {
	return sessionID + "|" + vendorID
}

// SetQuantity applies a quantity change to the session's cart for the
// vendor, creating the cart on first use.
func (s *Store) SetQuantity(sessionID string, item domain.MenuItem, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(sessionID, item.VendorID)
	c, ok := s.carts[k]
	if !ok {
		c = New(item.VendorID)
		s.carts[k] = c
	}
	return c.SetQuantity(item, quantity)
}

// Snapshot returns a copy of the session's cart for the vendor. The copy is
// safe to read after the original mutates.
func (s *Store) Snapshot(sessionID, vendorID string) *Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[key(sessionID, vendorID)]
	if !ok {
		return New(vendorID)
	}
	return &Cart{vendorID: c.vendorID, lines: c.Lines()}
}

// Clear drops the session's cart for the vendor.
func (s *Store) Clear(sessionID, vendorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key(sessionID, vendorID))
}

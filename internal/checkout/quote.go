package checkout

import (
	"errors"
	"fmt"
	"time"

	"tiffinbox/internal/cart"
	"tiffinbox/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrMissingVendor = errors.New("vendor is missing")
)

// BelowMinimumError reports how far a cart is from the vendor's minimum
// order amount, so callers can show "add X more".
type BelowMinimumError struct {
	Minimum   decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("subtotal is %s below the minimum order amount of %s",
		e.Shortfall.String(), e.Minimum.String())
}

// Subtotal sums unit price times quantity over the lines.
func Subtotal(lines []cart.Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// Total adds the vendor delivery fee to the subtotal.
func Total(subtotal, deliveryFee decimal.Decimal) decimal.Decimal {
	return subtotal.Add(deliveryFee)
}

// CheckMinimum is the minimum-order gate. It is a pure predicate with no
// cached state; callers re-evaluate it after every cart mutation. A nil
// return means checkout may proceed.
func CheckMinimum(subtotal, minOrderAmount decimal.Decimal) *BelowMinimumError {
	if subtotal.GreaterThanOrEqual(minOrderAmount) {
		return nil
	}
	return &BelowMinimumError{
		Minimum:   minOrderAmount,
		Shortfall: minOrderAmount.Sub(subtotal),
	}
}

// BuildQuote freezes the cart into a checkout quote: line snapshots with
// captured unit prices, derived totals, a fresh transaction id and the UPI
// payload for it. It fails fast on an empty cart, a missing vendor or a
// subtotal below the vendor minimum.
func BuildQuote(vendor domain.Vendor, lines []cart.Line, payee string) (*domain.CheckoutQuote, error) {
	if vendor.ID == "" {
		return nil, ErrMissingVendor
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := Subtotal(lines)
	if gateErr := CheckMinimum(subtotal, vendor.MinOrderAmount); gateErr != nil {
		return nil, gateErr
	}

	total := Total(subtotal, vendor.DeliveryFee)
	txnID := NewTransactionID()
	payload, err := BuildUPIPayload(payee, vendor.BusinessName, total, txnID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.QuoteItem, 0, len(lines))
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		items = append(items, domain.QuoteItem{
			MenuItemID: line.Item.ID,
			Name:       line.Item.Name,
			UnitPrice:  line.Item.Price,
			Quantity:   line.Quantity,
			TotalPrice: line.Item.Price.Mul(qty),
		})
	}

	return &domain.CheckoutQuote{
		Vendor:        vendor,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   vendor.DeliveryFee,
		Total:         total,
		TransactionID: txnID,
		QRPayload:     payload,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"tiffinbox/internal/cart"
	"tiffinbox/internal/checkout"
	"tiffinbox/internal/domain"
)

var (
	ErrQuoteNotFound = errors.New("checkout quote not found or expired")
	ErrNotQuoteOwner = errors.New("checkout quote belongs to another customer")
	ErrOrderNotFound = errors.New("order not found")
)

const estimatedDeliveryWindow = 45 * time.Minute

// OrderService runs the checkout flow: it freezes carts into one-shot
// quotes and turns submitted quotes into order + items + payment rows.
// Submission is idempotent on the quote's transaction id, so resubmitting
// after a failure converges on one order instead of duplicating it.
type OrderService struct {
	vendors   VendorRepository
	orders    OrderRepository
	quotes    QuoteStore
	publisher EventPublisher
	qr        QRGenerator
	payee     string
}

func NewOrderService(vendors VendorRepository, orders OrderRepository, quotes QuoteStore,
	publisher EventPublisher, qr QRGenerator, payee string) *OrderService {
	return &OrderService{
		vendors:   vendors,
		orders:    orders,
		quotes:    quotes,
		publisher: publisher,
		qr:        qr,
		payee:     payee,
	}
}

// StartCheckout builds a quote from the session's cart lines and parks it
// in the quote store under an opaque token. The minimum-order gate and the
// empty-cart check run inside checkout.BuildQuote.
func (s *OrderService) StartCheckout(ctx context.Context, session domain.Session, vendorID string, lines []cart.Line) (*domain.CheckoutQuote, error) {
	vendor, err := s.vendors.GetActiveVendor(vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, checkout.ErrMissingVendor
		}
		return nil, fmt.Errorf("load vendor: %w", err)
	}

	quote, err := checkout.BuildQuote(*vendor, lines, s.payee)
	if err != nil {
		return nil, err
	}
	quote.CustomerID = session.UserID

	if _, err := s.quotes.SaveQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("save quote: %w", err)
	}
	return quote, nil
}

func (s *OrderService) GetQuote(ctx context.Context, session domain.Session, token string) (*domain.CheckoutQuote, error) {
	quote, err := s.quotes.GetQuote(ctx, token)
	if err != nil {
		return nil, ErrQuoteNotFound
	}
	if quote.CustomerID != session.UserID {
		return nil, ErrNotQuoteOwner
	}
	return quote, nil
}

// Place submits the quote: order row, one item row per quote line (unit
// prices are the quote's snapshots, not live menu prices) and the payment
// row, all in one transaction. The quote is consumed only on success.
func (s *OrderService) Place(ctx context.Context, session domain.Session, token, instructions, paymentMethod string) (*domain.Order, error) {
	quote, err := s.GetQuote(ctx, session, token)
	if err != nil {
		return nil, err
	}

	// A resubmitted quote resolves to the order it already produced.
	if existing, err := s.orders.FindOrderByTransactionID(quote.TransactionID); err == nil {
		_ = s.quotes.DeleteQuote(ctx, token)
		return existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check transaction id: %w", err)
	}

	if paymentMethod == "" {
		paymentMethod = "qr_code"
	}

	now := time.Now().UTC()
	eta := now.Add(estimatedDeliveryWindow)
	order := &domain.Order{
		CustomerID:            session.UserID,
		VendorID:              quote.Vendor.ID,
		VendorName:            quote.Vendor.BusinessName,
		OrderNumber:           checkout.NewOrderNumber(now),
		Status:                domain.OrderPending,
		TotalAmount:           quote.Total,
		DeliveryFee:           quote.DeliveryFee,
		SpecialInstructions:   instructions,
		EstimatedDeliveryTime: &eta,
	}

	items := make([]domain.OrderItem, 0, len(quote.Items))
	for _, qi := range quote.Items {
		items = append(items, domain.OrderItem{
			MenuItemID:   qi.MenuItemID,
			MenuItemName: qi.Name,
			Quantity:     qi.Quantity,
			UnitPrice:    qi.UnitPrice,
			TotalPrice:   qi.TotalPrice,
		})
	}

	payment := &domain.Payment{
		CustomerID:    session.UserID,
		VendorID:      quote.Vendor.ID,
		Amount:        quote.Total,
		PaymentMethod: paymentMethod,
		TransactionID: quote.TransactionID,
		QRPayload:     quote.QRPayload,
		Status:        domain.PaymentPending,
	}

	if err := s.orders.PlaceOrder(order, items, payment); err != nil {
		// Two in-flight submissions can race past the lookup above; the
		// unique transaction id makes the loser resolve to the winner.
		if existing, findErr := s.orders.FindOrderByTransactionID(quote.TransactionID); findErr == nil {
			_ = s.quotes.DeleteQuote(ctx, token)
			return existing, nil
		}
		return nil, fmt.Errorf("place order: %w", err)
	}
	order.PaymentStatus = payment.Status

	if s.publisher != nil {
		if err := s.publisher.PublishEvent(ctx, domain.Event{
			Type:       domain.EventOrderPlaced,
			OrderID:    order.ID,
			VendorID:   order.VendorID,
			CustomerID: order.CustomerID,
			Timestamp:  now,
		}); err != nil {
			log.Printf("[storefront] failed to publish order event: %v", err)
		}
	}

	if err := s.quotes.DeleteQuote(ctx, token); err != nil {
		log.Printf("[storefront] failed to consume quote %s: %v", token, err)
	}
	return order, nil
}

func (s *OrderService) Get(orderID, customerID string) (*domain.Order, error) {
	order, err := s.orders.GetCustomerOrder(orderID, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// PaymentQRPNG renders the order's stored UPI payload as a PNG.
func (s *OrderService) PaymentQRPNG(orderID, customerID string) ([]byte, error) {
	payload, err := s.orders.GetPaymentQR(orderID, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return s.qr.Render(payload)
}

var _ OrderServiceInterface = (*OrderService)(nil)

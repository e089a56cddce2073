package service

import (
	"context"

	"tiffinbox/internal/cart"
	"tiffinbox/internal/domain"
)

type VendorRepository interface {
	ListActiveVendors() ([]domain.Vendor, error)
	GetActiveVendor(id string) (*domain.Vendor, error)
	ListMenuItems(vendorID string) ([]domain.MenuItem, error)
	GetMenuItem(vendorID, itemID string) (*domain.MenuItem, error)
}

type ProfileRepository interface {
	GetProfile(id string) (*domain.Profile, error)
	InsertProfile(profile *domain.Profile) error
}

type OrderRepository interface {
	PlaceOrder(order *domain.Order, items []domain.OrderItem, payment *domain.Payment) error
	FindOrderByTransactionID(txnID string) (*domain.Order, error)
	ListCustomerOrders(customerID string) ([]domain.Order, error)
	GetCustomerOrder(orderID, customerID string) (*domain.Order, error)
	GetPaymentQR(orderID, customerID string) (string, error)
}

type ReviewRepository interface {
	GetCustomerOrder(orderID, customerID string) (*domain.Order, error)
	HasReview(orderID string) (bool, error)
	InsertReview(review *domain.Review) error
	ListVendorReviews(vendorID string) ([]domain.Review, error)
}

type QuoteStore interface {
	SaveQuote(ctx context.Context, quote *domain.CheckoutQuote) (string, error)
	GetQuote(ctx context.Context, token string) (*domain.CheckoutQuote, error)
	DeleteQuote(ctx context.Context, token string) error
}

type ReviewCache interface {
	ReviewMarkerKey(orderID string) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event domain.Event) error
}

type QRGenerator interface {
	Render(payload string) ([]byte, error)
}

type CatalogServiceInterface interface {
	ListVendors(query, sortBy string, minRating float64) ([]domain.Vendor, error)
	GetVendor(id string) (*domain.Vendor, error)
	Menu(vendorID string) ([]domain.MenuItem, []string, error)
	GetMenuItem(vendorID, itemID string) (*domain.MenuItem, error)
}

type ProfileServiceInterface interface {
	EnsureProfile(session domain.Session) (*domain.Profile, error)
}

type OrderServiceInterface interface {
	StartCheckout(ctx context.Context, session domain.Session, vendorID string, lines []cart.Line) (*domain.CheckoutQuote, error)
	GetQuote(ctx context.Context, session domain.Session, token string) (*domain.CheckoutQuote, error)
	Place(ctx context.Context, session domain.Session, token, instructions, paymentMethod string) (*domain.Order, error)
	Get(orderID, customerID string) (*domain.Order, error)
	PaymentQRPNG(orderID, customerID string) ([]byte, error)
}

type HistoryServiceInterface interface {
	Orders(customerID string) ([]domain.Order, error)
}

type ReviewServiceInterface interface {
	Create(ctx context.Context, session domain.Session, review *domain.Review) error
	ListVendorReviews(vendorID string) ([]domain.Review, error)
}

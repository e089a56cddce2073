// Package mocks contains testify mocks for the service-layer interfaces.
package mocks

import (
	"context"

	"tiffinbox/internal/domain"

	"github.com/stretchr/testify/mock"
)

type VendorRepository struct {
	mock.Mock
}

func (m *VendorRepository) ListActiveVendors() ([]domain.Vendor, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

func (m *VendorRepository) GetActiveVendor(id string) (*domain.Vendor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *VendorRepository) ListMenuItems(vendorID string) ([]domain.MenuItem, error) {
	args := m.Called(vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

func (m *VendorRepository) GetMenuItem(vendorID, itemID string) (*domain.MenuItem, error) {
	args := m.Called(vendorID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MenuItem), args.Error(1)
}

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) GetProfile(id string) (*domain.Profile, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *ProfileRepository) InsertProfile(profile *domain.Profile) error {
	args := m.Called(profile)
	return args.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) PlaceOrder(order *domain.Order, items []domain.OrderItem, payment *domain.Payment) error {
	args := m.Called(order, items, payment)
	return args.Error(0)
}

func (m *OrderRepository) FindOrderByTransactionID(txnID string) (*domain.Order, error) {
	args := m.Called(txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) ListCustomerOrders(customerID string) ([]domain.Order, error) {
	args := m.Called(customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderRepository) GetCustomerOrder(orderID, customerID string) (*domain.Order, error) {
	args := m.Called(orderID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) GetPaymentQR(orderID, customerID string) (string, error) {
	args := m.Called(orderID, customerID)
	return args.String(0), args.Error(1)
}

type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) GetCustomerOrder(orderID, customerID string) (*domain.Order, error) {
	args := m.Called(orderID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *ReviewRepository) HasReview(orderID string) (bool, error) {
	args := m.Called(orderID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepository) InsertReview(review *domain.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *ReviewRepository) ListVendorReviews(vendorID string) ([]domain.Review, error) {
	args := m.Called(vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type QuoteStore struct {
	mock.Mock
}

func (m *QuoteStore) SaveQuote(ctx context.Context, quote *domain.CheckoutQuote) (string, error) {
	args := m.Called(ctx, quote)
	return args.String(0), args.Error(1)
}

func (m *QuoteStore) GetQuote(ctx context.Context, token string) (*domain.CheckoutQuote, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckoutQuote), args.Error(1)
}

func (m *QuoteStore) DeleteQuote(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type ReviewCache struct {
	mock.Mock
}

func (m *ReviewCache) ReviewMarkerKey(orderID string) string {
	args := m.Called(orderID)
	return args.String(0)
}

func (m *ReviewCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewCache) SetMarker(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishEvent(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Render(payload string) ([]byte, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

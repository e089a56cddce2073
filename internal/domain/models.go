package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Session is the authenticated identity handed in by the identity-provider
// edge. It is extracted once per request and passed explicitly; there is no
// ambient auth state.
type Session struct {
	UserID     string
	Email      string
	GivenName  string
	FamilyName string
}

// FullName derives a display name, falling back to the email local part.
func (s Session) FullName() string {
	if s.GivenName != "" && s.FamilyName != "" {
		return s.GivenName + " " + s.FamilyName
	}
	if at := strings.IndexByte(s.Email, '@'); at > 0 {
		return s.Email[:at]
	}
	return s.Email
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Vendor struct {
	ID             string          `json:"id"`
	ProfileID      string          `json:"profile_id"`
	BusinessName   string          `json:"business_name"`
	Description    string          `json:"description,omitempty"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	IsActive       bool            `json:"is_active"`
	Rating         float64         `json:"rating"`
	TotalOrders    int             `json:"total_orders"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	ImageURL       string          `json:"image_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type MenuItem struct {
	ID              string          `json:"id"`
	VendorID        string          `json:"vendor_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	IsAvailable     bool            `json:"is_available"`
	ImageURL        string          `json:"image_url,omitempty"`
	PreparationTime int             `json:"preparation_time"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Order statuses progress strictly forward; transitions are owned by the
// vendor side, never by this service.
const (
	OrderPending   = "pending"
	OrderAccepted  = "accepted"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Order struct {
	ID                    string          `json:"id"`
	CustomerID            string          `json:"customer_id"`
	VendorID              string          `json:"vendor_id"`
	VendorName            string          `json:"vendor_name,omitempty"`
	OrderNumber           string          `json:"order_number"`
	Status                string          `json:"status"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	SpecialInstructions   string          `json:"special_instructions,omitempty"`
	EstimatedDeliveryTime *time.Time      `json:"estimated_delivery_time,omitempty"`
	PaymentStatus         string          `json:"payment_status,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	Items                 []OrderItem     `json:"items,omitempty"`
}

// OrderItem captures the unit price at order time; later menu price changes
// never touch it.
type OrderItem struct {
	ID           string          `json:"id,omitempty"`
	OrderID      string          `json:"order_id,omitempty"`
	MenuItemID   string          `json:"menu_item_id"`
	MenuItemName string          `json:"menu_item_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type Payment struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	CustomerID    string          `json:"customer_id"`
	VendorID      string          `json:"vendor_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id"`
	QRPayload     string          `json:"qr_code_data"`
	Status        string          `json:"status"`
	VerifiedBy    string          `json:"verified_by,omitempty"`
	VerifiedAt    *time.Time      `json:"verified_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Review struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	VendorID   string    `json:"vendor_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// QuoteItem is one cart line frozen into a checkout quote.
type QuoteItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CheckoutQuote is the ephemeral summary handed from the vendor catalog to
// the checkout step. It lives in Redis under an opaque token and is removed
// once the order it describes has been placed.
type CheckoutQuote struct {
	Token         string          `json:"token"`
	CustomerID    string          `json:"customer_id"`
	Vendor        Vendor          `json:"vendor"`
	Items         []QuoteItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	TransactionID string          `json:"transaction_id"`
	QRPayload     string          `json:"qr_code_data"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderStats are pure projections over a customer's order list, recomputed
// on every fetch.
type OrderStats struct {
	Total      int             `json:"total"`
	Completed  int             `json:"completed"`
	InProgress int             `json:"in_progress"`
	Cancelled  int             `json:"cancelled"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id,omitempty"`
	VendorID   string    `json:"vendor_id"`
	CustomerID string    `json:"customer_id,omitempty"`
	Rating     int       `json:"rating,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventOrderPlaced = "order_placed"
	EventNewReview   = "new_review"
)

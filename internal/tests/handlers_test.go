package tests

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "tiffinbox/internal/api/http"
	"tiffinbox/internal/cart"
	"tiffinbox/internal/domain"
	"tiffinbox/internal/mocks"
	"tiffinbox/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type testEnv struct {
	vendors   *mocks.VendorRepository
	profiles  *mocks.ProfileRepository
	orders    *mocks.OrderRepository
	reviews   *mocks.ReviewRepository
	quotes    *mocks.QuoteStore
	cache     *mocks.ReviewCache
	publisher *mocks.EventPublisher
	carts     *cart.Store
	router    http.Handler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		vendors:   new(mocks.VendorRepository),
		profiles:  new(mocks.ProfileRepository),
		orders:    new(mocks.OrderRepository),
		reviews:   new(mocks.ReviewRepository),
		quotes:    new(mocks.QuoteStore),
		cache:     new(mocks.ReviewCache),
		publisher: new(mocks.EventPublisher),
		carts:     cart.NewStore(),
	}

	handler := httpapi.NewHandler(
		service.NewCatalogService(env.vendors),
		service.NewProfileService(env.profiles),
		service.NewOrderService(env.vendors, env.orders, env.quotes, env.publisher,
			service.PNGQRGenerator{Size: 64}, "vendor@paytm"),
		service.NewHistoryService(env.orders),
		service.NewReviewService(env.reviews, env.cache, env.publisher),
		env.carts,
	)
	env.router = httpapi.NewRouter(handler)
	return env
}

func (env *testEnv) do(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if authed {
		req.Header.Set("X-User-Id", "user-1")
		req.Header.Set("X-User-Email", "asha@example.com")
		req.Header.Set("X-User-Given-Name", "Asha")
		req.Header.Set("X-User-Family-Name", "Rao")
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func menuItem(id, name, price string, available bool) *domain.MenuItem {
	return &domain.MenuItem{
		ID:          id,
		VendorID:    "v1",
		Name:        name,
		Price:       dec(price),
		Category:    "Lunch",
		IsAvailable: available,
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv()
	rec := env.do("GET", "/health", nil, false)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestGetVendorsEndpoint(t *testing.T) {
	env := newTestEnv()
	env.vendors.On("ListActiveVendors").Return([]domain.Vendor{
		{ID: "v1", BusinessName: "Amma's Kitchen", Rating: 4.5},
		{ID: "v2", BusinessName: "Ravi Tiffins", Rating: 3.2},
	}, nil)

	rec := env.do("GET", "/api/vendors?min_rating=4", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	var vendors []domain.Vendor
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vendors))
	if assert.Len(t, vendors, 1) {
		assert.Equal(t, "v1", vendors[0].ID)
	}
}

func TestGetVendorMenuEndpoint(t *testing.T) {
	env := newTestEnv()
	env.vendors.On("ListMenuItems", "v1").Return([]domain.MenuItem{
		*menuItem("m1", "Thali", "120", true),
		*menuItem("m2", "Curd Rice", "60", true),
	}, nil)

	rec := env.do("GET", "/api/vendors/v1/menu", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items      []domain.MenuItem `json:"items"`
		Categories []string          `json:"categories"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)
	assert.Equal(t, []string{"Lunch"}, body.Categories)
}

func TestCartEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv()

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/vendors/v1/cart"},
		{"PUT", "/api/vendors/v1/cart/items/m1"},
		{"POST", "/api/vendors/v1/checkout"},
		{"GET", "/api/orders"},
		{"GET", "/api/dashboard"},
	}
	for _, route := range paths {
		rec := env.do(route.method, route.path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestSetCartItemEndpoint(t *testing.T) {
	env := newTestEnv()
	env.vendors.On("GetActiveVendor", "v1").Return(testVendor(), nil)
	env.vendors.On("GetMenuItem", "v1", "m1").Return(menuItem("m1", "Thali", "120", true), nil)

	rec := env.do("PUT", "/api/vendors/v1/cart/items/m1", map[string]int{"quantity": 2}, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		VendorID     string `json:"vendor_id"`
		ItemCount    int    `json:"item_count"`
		Subtotal     string `json:"subtotal"`
		MeetsMinimum bool   `json:"meets_minimum"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v1", body.VendorID)
	assert.Equal(t, 2, body.ItemCount)
	assert.Equal(t, "240", body.Subtotal)
	assert.True(t, body.MeetsMinimum)

	// Quantity zero removes the line again.
	rec = env.do("PUT", "/api/vendors/v1/cart/items/m1", map[string]int{"quantity": 0}, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.ItemCount)
}

func TestSetCartItemEndpoint_Unavailable(t *testing.T) {
	env := newTestEnv()
	env.vendors.On("GetActiveVendor", "v1").Return(testVendor(), nil)
	env.vendors.On("GetMenuItem", "v1", "m9").Return(menuItem("m9", "Off Menu", "80", false), nil)

	rec := env.do("PUT", "/api/vendors/v1/cart/items/m9", map[string]int{"quantity": 1}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetCartEndpoint_Shortfall(t *testing.T) {
	env := newTestEnv()
	env.vendors.On("GetActiveVendor", "v1").Return(testVendor(), nil)
	env.carts.SetQuantity("user-1", *menuItem("m2", "Curd Rice", "60", true), 1)

	rec := env.do("GET", "/api/vendors/v1/cart", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		MeetsMinimum bool   `json:"meets_minimum"`
		Shortfall    string `json:"shortfall"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.MeetsMinimum)
	assert.Equal(t, "40", body.Shortfall)
}

func TestStartCheckoutEndpoint(t *testing.T) {
	env := newTestEnv()
	env.vendors.On("GetActiveVendor", "v1").Return(testVendor(), nil)
	env.quotes.On("SaveQuote", mock.Anything, mock.AnythingOfType("*domain.CheckoutQuote")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.CheckoutQuote).Token = "tok123"
		}).Return("tok123", nil)

	env.carts.SetQuantity("user-1", *menuItem("m1", "Thali", "120", true), 2)

	rec := env.do("POST", "/api/vendors/v1/checkout", nil, true)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var quote domain.CheckoutQuote
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, "tok123", quote.Token)
	assert.True(t, quote.Total.Equal(dec("260")))
	assert.Contains(t, quote.QRPayload, "cu=INR")
}

func TestStartCheckoutEndpoint_EmptyCart(t *testing.T) {
	env := newTestEnv()
	env.vendors.On("GetActiveVendor", "v1").Return(testVendor(), nil)

	rec := env.do("POST", "/api/vendors/v1/checkout", nil, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
}

func TestStartCheckoutEndpoint_BelowMinimum(t *testing.T) {
	env := newTestEnv()
	env.vendors.On("GetActiveVendor", "v1").Return(testVendor(), nil)
	env.carts.SetQuantity("user-1", *menuItem("m2", "Curd Rice", "60", true), 1)

	rec := env.do("POST", "/api/vendors/v1/checkout", nil, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "40", body["shortfall"])
	assert.NotEmpty(t, body["error"])
}

func TestGetQuoteEndpoint(t *testing.T) {
	env := newTestEnv()
	env.quotes.On("GetQuote", mock.Anything, "gone").Return(nil, assert.AnError)

	stolen := storedQuote()
	stolen.CustomerID = "someone-else"
	env.quotes.On("GetQuote", mock.Anything, "stolen").Return(stolen, nil)

	rec := env.do("GET", "/api/checkout/gone", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid checkout data")

	rec = env.do("GET", "/api/checkout/stolen", nil, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPlaceOrderEndpoint(t *testing.T) {
	env := newTestEnv()
	env.quotes.On("GetQuote", mock.Anything, "tok123").Return(storedQuote(), nil)
	env.quotes.On("DeleteQuote", mock.Anything, "tok123").Return(nil)
	env.orders.On("FindOrderByTransactionID", "TXN-AABBCCDDEE11").Return(nil, sql.ErrNoRows)
	env.orders.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order := args.Get(0).(*domain.Order)
			order.ID = "o1"
			order.CreatedAt = time.Now()
		}).Return(nil)
	env.publisher.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

	// The vendor cart drains once the order lands.
	env.carts.SetQuantity("user-1", *menuItem("m1", "Thali", "120", true), 2)

	rec := env.do("POST", "/api/checkout/tok123/order",
		map[string]string{"special_instructions": "less spicy"}, true)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Message string       `json:"message"`
		Order   domain.Order `json:"order"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Order placed successfully! Your payment is pending verification.", body.Message)
	assert.Equal(t, "o1", body.Order.ID)
	assert.Equal(t, domain.OrderPending, body.Order.Status)

	assert.True(t, env.carts.Snapshot("user-1", "v1").IsEmpty())
}

func TestOrderQRCodeEndpoint(t *testing.T) {
	env := newTestEnv()
	env.orders.On("GetPaymentQR", "o1", "user-1").
		Return("upi://pay?pa=vendor@paytm&pn=Amma&am=260&tn=x&cu=INR", nil)
	env.orders.On("GetPaymentQR", "o2", "user-1").Return("", sql.ErrNoRows)

	rec := env.do("GET", "/api/orders/o1/qrcode", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = env.do("GET", "/api/orders/o2/qrcode", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReviewEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		rating   int
		status   string
		dup      bool
		wantCode int
	}{
		{name: "delivered order accepts review", rating: 5, status: domain.OrderDelivered, wantCode: http.StatusCreated},
		{name: "pending order rejected", rating: 5, status: domain.OrderPending, wantCode: http.StatusUnprocessableEntity},
		{name: "rating out of range rejected", rating: 9, status: domain.OrderDelivered, wantCode: http.StatusUnprocessableEntity},
		{name: "duplicate review conflicts", rating: 5, status: domain.OrderDelivered, dup: true, wantCode: http.StatusConflict},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := newTestEnv()
			env.reviews.On("GetCustomerOrder", "o1", "user-1").
				Return(&domain.Order{ID: "o1", VendorID: "v1", Status: testCase.status}, nil)
			env.cache.On("ReviewMarkerKey", "o1").Return("review:o1")
			env.cache.On("Exists", mock.Anything, "review:o1").Return(false, nil)
			env.cache.On("SetMarker", mock.Anything, "review:o1").Return(nil)
			env.reviews.On("HasReview", "o1").Return(testCase.dup, nil)
			env.reviews.On("InsertReview", mock.Anything).Return(nil)
			env.publisher.On("PublishEvent", mock.Anything, mock.Anything).Return(nil)

			rec := env.do("POST", "/api/orders/o1/reviews",
				map[string]interface{}{"rating": testCase.rating, "comment": "tasty"}, true)
			assert.Equal(t, testCase.wantCode, rec.Code)
		})
	}
}

func TestDashboardEndpoint(t *testing.T) {
	env := newTestEnv()
	env.profiles.On("GetProfile", "user-1").
		Return(&domain.Profile{ID: "user-1", FullName: "Asha Rao", Role: "student"}, nil)
	env.orders.On("ListCustomerOrders", "user-1").Return([]domain.Order{
		{ID: "o1", Status: domain.OrderDelivered, TotalAmount: dec("260")},
		{ID: "o2", Status: domain.OrderPreparing, TotalAmount: dec("150")},
		{ID: "o3", Status: domain.OrderCancelled, TotalAmount: dec("500")},
	}, nil)

	rec := env.do("GET", "/api/dashboard", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Profile domain.Profile     `json:"profile"`
		Stats   domain.OrderStats  `json:"stats"`
		Orders  []domain.Order     `json:"orders"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Asha Rao", body.Profile.FullName)
	assert.Equal(t, 3, body.Stats.Total)
	assert.Equal(t, 1, body.Stats.Completed)
	assert.Equal(t, 1, body.Stats.InProgress)
	assert.Equal(t, 1, body.Stats.Cancelled)
	assert.True(t, body.Stats.TotalSpent.Equal(dec("260")))
	assert.Len(t, body.Orders, 3)
}

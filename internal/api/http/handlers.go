package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tiffinbox/internal/cart"
	"tiffinbox/internal/checkout"
	"tiffinbox/internal/domain"
	"tiffinbox/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Catalog  service.CatalogServiceInterface
	Profiles service.ProfileServiceInterface
	Orders   service.OrderServiceInterface
	History  service.HistoryServiceInterface
	Reviews  service.ReviewServiceInterface
	Carts    *cart.Store
}

func NewHandler(catalog service.CatalogServiceInterface, profiles service.ProfileServiceInterface,
	orders service.OrderServiceInterface, history service.HistoryServiceInterface,
	reviews service.ReviewServiceInterface, carts *cart.Store) *Handler {
	return &Handler{
		Catalog:  catalog,
		Profiles: profiles,
		Orders:   orders,
		History:  history,
		Reviews:  reviews,
		Carts:    carts,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/vendors", h.getVendors).Methods("GET")
	r.HandleFunc("/api/vendors/{id}", h.getVendor).Methods("GET")
	r.HandleFunc("/api/vendors/{id}/menu", h.getVendorMenu).Methods("GET")
	r.HandleFunc("/api/vendors/{id}/reviews", h.getVendorReviews).Methods("GET")

	r.HandleFunc("/api/vendors/{id}/cart", RequireSession(h.getCart)).Methods("GET")
	r.HandleFunc("/api/vendors/{id}/cart/items/{itemId}", RequireSession(h.setCartItem)).Methods("PUT")
	r.HandleFunc("/api/vendors/{id}/checkout", RequireSession(h.startCheckout)).Methods("POST")

	r.HandleFunc("/api/checkout/{token}", RequireSession(h.getQuote)).Methods("GET")
	r.HandleFunc("/api/checkout/{token}/order", RequireSession(h.placeOrder)).Methods("POST")

	r.HandleFunc("/api/orders", RequireSession(h.getOrders)).Methods("GET")
	r.HandleFunc("/api/orders/{id}", RequireSession(h.getOrder)).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", RequireSession(h.getOrderQRCode)).Methods("GET")
	r.HandleFunc("/api/orders/{id}/reviews", RequireSession(h.createReview)).Methods("POST")

	r.HandleFunc("/api/dashboard", RequireSession(h.getDashboard)).Methods("GET")
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getVendors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	sortBy := r.URL.Query().Get("sort")
	minRating, _ := strconv.ParseFloat(r.URL.Query().Get("min_rating"), 64)

	vendors, err := h.Catalog.ListVendors(query, sortBy, minRating)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	respondJSON(w, http.StatusOK, vendors)
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.Catalog.GetVendor(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Vendor not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

func (h *Handler) getVendorMenu(w http.ResponseWriter, r *http.Request) {
	items, categories, err := h.Catalog.Menu(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":      items,
		"categories": categories,
	})
}

func (h *Handler) getVendorReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListVendorReviews(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	respondJSON(w, http.StatusOK, reviews)
}

type cartResponse struct {
	VendorID     string      `json:"vendor_id"`
	Items        []cart.Line `json:"items"`
	Subtotal     string      `json:"subtotal"`
	ItemCount    int         `json:"item_count"`
	MeetsMinimum bool        `json:"meets_minimum"`
	Shortfall    string      `json:"shortfall,omitempty"`
}

func (h *Handler) cartResponseFor(snapshot *cart.Cart, vendor *domain.Vendor) cartResponse {
	subtotal := snapshot.Subtotal()
	resp := cartResponse{
		VendorID:     snapshot.VendorID(),
		Items:        snapshot.Lines(),
		Subtotal:     subtotal.String(),
		ItemCount:    snapshot.ItemCount(),
		MeetsMinimum: true,
	}
	if gateErr := checkout.CheckMinimum(subtotal, vendor.MinOrderAmount); gateErr != nil {
		resp.MeetsMinimum = false
		resp.Shortfall = gateErr.Shortfall.String()
	}
	return resp
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	vendorID := mux.Vars(r)["id"]

	vendor, err := h.Catalog.GetVendor(vendorID)
	if err != nil {
		http.Error(w, "Vendor not found", http.StatusNotFound)
		return
	}

	snapshot := h.Carts.Snapshot(session.UserID, vendorID)
	respondJSON(w, http.StatusOK, h.cartResponseFor(snapshot, vendor))
}

func (h *Handler) setCartItem(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	vendorID := mux.Vars(r)["id"]
	itemID := mux.Vars(r)["itemId"]

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	vendor, err := h.Catalog.GetVendor(vendorID)
	if err != nil {
		http.Error(w, "Vendor not found", http.StatusNotFound)
		return
	}

	item, err := h.Catalog.GetMenuItem(vendorID, itemID)
	if err != nil {
		http.Error(w, "Menu item not found", http.StatusNotFound)
		return
	}
	if body.Quantity > 0 && !item.IsAvailable {
		http.Error(w, "Menu item is not available", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Carts.SetQuantity(session.UserID, *item, body.Quantity); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot := h.Carts.Snapshot(session.UserID, vendorID)
	respondJSON(w, http.StatusOK, h.cartResponseFor(snapshot, vendor))
}

func (h *Handler) startCheckout(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	vendorID := mux.Vars(r)["id"]

	snapshot := h.Carts.Snapshot(session.UserID, vendorID)
	quote, err := h.Orders.StartCheckout(r.Context(), session, vendorID, snapshot.Lines())
	if err != nil {
		var gateErr *checkout.BelowMinimumError
		switch {
		case errors.As(err, &gateErr):
			respondJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":     gateErr.Error(),
				"shortfall": gateErr.Shortfall.String(),
			})
		case errors.Is(err, checkout.ErrEmptyCart):
			http.Error(w, "Your cart is empty", http.StatusUnprocessableEntity)
		case errors.Is(err, checkout.ErrMissingVendor):
			http.Error(w, "Vendor not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, quote)
}

func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	quote, err := h.Orders.GetQuote(r.Context(), session, mux.Vars(r)["token"])
	if err != nil {
		// A missing quote sends the client back to the vendor catalog.
		if errors.Is(err, service.ErrNotQuoteOwner) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, "Invalid checkout data", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	token := mux.Vars(r)["token"]

	var body struct {
		SpecialInstructions string `json:"special_instructions"`
		PaymentMethod       string `json:"payment_method"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	order, err := h.Orders.Place(r.Context(), session, token, body.SpecialInstructions, body.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuoteNotFound):
			http.Error(w, "Invalid checkout data", http.StatusNotFound)
		case errors.Is(err, service.ErrNotQuoteOwner):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "Failed to place order. Please try again.", http.StatusInternalServerError)
		}
		return
	}

	h.Carts.Clear(session.UserID, order.VendorID)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully! Your payment is pending verification.",
		"order":   order,
	})
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	orders, err := h.History.Orders(session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"stats":  service.ComputeStats(orders),
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	order, err := h.Orders.Get(mux.Vars(r)["id"], session.UserID)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	png, err := h.Orders.PaymentQRPNG(mux.Vars(r)["id"], session.UserID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	review := &domain.Review{
		OrderID: mux.Vars(r)["id"],
		Rating:  body.Rating,
		Comment: body.Comment,
	}

	if err := h.Reviews.Create(r.Context(), session, review); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating), errors.Is(err, service.ErrOrderNotDelivered):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, service.ErrDuplicateReview):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, service.ErrOrderNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, http.StatusCreated, review)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	profile, err := h.Profiles.EnsureProfile(session)
	if err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	orders, err := h.History.Orders(session.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"stats":   service.ComputeStats(orders),
		"orders":  orders,
	})
}

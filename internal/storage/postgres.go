package storage

import (
	"database/sql"
	"fmt"

	"tiffinbox/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const vendorColumns = `id, profile_id, business_name, COALESCE(description, ''), address, phone,
		is_active, COALESCE(rating, 0), COALESCE(total_orders, 0), delivery_fee, min_order_amount,
		COALESCE(image_url, ''), created_at`

func scanVendor(row interface{ Scan(...interface{}) error }, v *domain.Vendor) error {
	return row.Scan(&v.ID, &v.ProfileID, &v.BusinessName, &v.Description, &v.Address, &v.Phone,
		&v.IsActive, &v.Rating, &v.TotalOrders, &v.DeliveryFee, &v.MinOrderAmount,
		&v.ImageURL, &v.CreatedAt)
}

func (r *PostgresRepository) ListActiveVendors() ([]domain.Vendor, error) {
	rows, err := r.DB.Query(`
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE is_active = TRUE
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []domain.Vendor
	for rows.Next() {
		var v domain.Vendor
		if err := scanVendor(rows, &v); err != nil {
			continue
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}

func (r *PostgresRepository) GetActiveVendor(id string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := scanVendor(r.DB.QueryRow(`
		SELECT `+vendorColumns+`
		FROM vendors
		WHERE id = $1 AND is_active = TRUE`, id), &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresRepository) ListMenuItems(vendorID string) ([]domain.MenuItem, error) {
	rows, err := r.DB.Query(`
		SELECT id, vendor_id, name, COALESCE(description, ''), price, category,
			is_available, COALESCE(image_url, ''), preparation_time, created_at
		FROM menu_items
		WHERE vendor_id = $1
		ORDER BY category, name`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.VendorID, &item.Name, &item.Description, &item.Price,
			&item.Category, &item.IsAvailable, &item.ImageURL, &item.PreparationTime, &item.CreatedAt); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *PostgresRepository) GetMenuItem(vendorID, itemID string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.DB.QueryRow(`
		SELECT id, vendor_id, name, COALESCE(description, ''), price, category,
			is_available, COALESCE(image_url, ''), preparation_time, created_at
		FROM menu_items
		WHERE id = $1 AND vendor_id = $2`, itemID, vendorID).
		Scan(&item.ID, &item.VendorID, &item.Name, &item.Description, &item.Price,
			&item.Category, &item.IsAvailable, &item.ImageURL, &item.PreparationTime, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) GetProfile(id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.DB.QueryRow(`
		SELECT id, email, full_name, role, COALESCE(phone, ''), created_at
		FROM profiles
		WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.Phone, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) InsertProfile(p *domain.Profile) error {
	return r.DB.QueryRow(`
		INSERT INTO profiles (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
		RETURNING created_at`,
		p.ID, p.Email, p.FullName, p.Role).Scan(&p.CreatedAt)
}

// PlaceOrder writes the order, its line items and the payment record inside
// one transaction, so a partial order can never be observed.
func (r *PostgresRepository) PlaceOrder(order *domain.Order, items []domain.OrderItem, payment *domain.Payment) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	instructions := sql.NullString{String: order.SpecialInstructions, Valid: order.SpecialInstructions != ""}

	if err := tx.QueryRow(`
		INSERT INTO orders (customer_id, vendor_id, order_number, status, total_amount,
			delivery_fee, special_instructions, estimated_delivery_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, order.CustomerID, order.VendorID, order.OrderNumber, order.Status, order.TotalAmount,
		order.DeliveryFee, instructions, order.EstimatedDeliveryTime).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRow(`
			INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, items[i].OrderID, items[i].MenuItemID, items[i].Quantity, items[i].UnitPrice, items[i].TotalPrice).
			Scan(&items[i].ID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	payment.OrderID = order.ID
	if err := tx.QueryRow(`
		INSERT INTO payments (order_id, customer_id, vendor_id, amount, payment_method,
			transaction_id, qr_code_data, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, payment.OrderID, payment.CustomerID, payment.VendorID, payment.Amount, payment.PaymentMethod,
		payment.TransactionID, payment.QRPayload, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	order.Items = items
	return tx.Commit()
}

// FindOrderByTransactionID resolves a previously submitted order through its
// payment's transaction id. Resubmissions converge on this lookup.
func (r *PostgresRepository) FindOrderByTransactionID(txnID string) (*domain.Order, error) {
	var order domain.Order
	var eta sql.NullTime
	var instructions sql.NullString
	err := r.DB.QueryRow(`
		SELECT o.id, o.customer_id, o.vendor_id, o.order_number, o.status, o.total_amount,
			o.delivery_fee, o.special_instructions, o.estimated_delivery_time, o.created_at
		FROM orders o
		JOIN payments p ON p.order_id = o.id
		WHERE p.transaction_id = $1
	`, txnID).Scan(&order.ID, &order.CustomerID, &order.VendorID, &order.OrderNumber, &order.Status,
		&order.TotalAmount, &order.DeliveryFee, &instructions, &eta, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	order.SpecialInstructions = instructions.String
	if eta.Valid {
		order.EstimatedDeliveryTime = &eta.Time
	}
	return &order, nil
}

// ListCustomerOrders returns the customer's orders newest-first, each joined
// with the vendor's display name, its items (with menu item names) and the
// payment status.
func (r *PostgresRepository) ListCustomerOrders(customerID string) ([]domain.Order, error) {
	rows, err := r.DB.Query(`
		SELECT o.id, o.customer_id, o.vendor_id, v.business_name, o.order_number, o.status,
			o.total_amount, o.delivery_fee, o.special_instructions, o.estimated_delivery_time,
			COALESCE(p.status, ''), o.created_at
		FROM orders o
		JOIN vendors v ON o.vendor_id = v.id
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var eta sql.NullTime
		var instructions sql.NullString
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.VendorID, &order.VendorName,
			&order.OrderNumber, &order.Status, &order.TotalAmount, &order.DeliveryFee,
			&instructions, &eta, &order.PaymentStatus, &order.CreatedAt); err != nil {
			continue
		}
		order.SpecialInstructions = instructions.String
		if eta.Valid {
			order.EstimatedDeliveryTime = &eta.Time
		}

		items, err := r.listOrderItems(order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items

		orders = append(orders, order)
	}
	return orders, nil
}

func (r *PostgresRepository) listOrderItems(orderID string) ([]domain.OrderItem, error) {
	rows, err := r.DB.Query(`
		SELECT oi.id, oi.order_id, oi.menu_item_id, m.name, oi.quantity, oi.unit_price, oi.total_price
		FROM order_items oi
		JOIN menu_items m ON oi.menu_item_id = m.id
		WHERE oi.order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.MenuItemName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *PostgresRepository) GetCustomerOrder(orderID, customerID string) (*domain.Order, error) {
	var order domain.Order
	var eta sql.NullTime
	var instructions sql.NullString
	err := r.DB.QueryRow(`
		SELECT o.id, o.customer_id, o.vendor_id, v.business_name, o.order_number, o.status,
			o.total_amount, o.delivery_fee, o.special_instructions, o.estimated_delivery_time,
			COALESCE(p.status, ''), o.created_at
		FROM orders o
		JOIN vendors v ON o.vendor_id = v.id
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.id = $1 AND o.customer_id = $2
	`, orderID, customerID).Scan(&order.ID, &order.CustomerID, &order.VendorID, &order.VendorName,
		&order.OrderNumber, &order.Status, &order.TotalAmount, &order.DeliveryFee,
		&instructions, &eta, &order.PaymentStatus, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	order.SpecialInstructions = instructions.String
	if eta.Valid {
		order.EstimatedDeliveryTime = &eta.Time
	}

	items, err := r.listOrderItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

// GetPaymentQR returns the stored UPI payload for the customer's order.
func (r *PostgresRepository) GetPaymentQR(orderID, customerID string) (string, error) {
	var payload string
	err := r.DB.QueryRow(`
		SELECT qr_code_data
		FROM payments
		WHERE order_id = $1 AND customer_id = $2
	`, orderID, customerID).Scan(&payload)
	if err != nil {
		return "", err
	}
	return payload, nil
}

func (r *PostgresRepository) HasReview(orderID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM reviews WHERE order_id = $1)`, orderID).
		Scan(&exists)
	return exists, err
}

func (r *PostgresRepository) InsertReview(review *domain.Review) error {
	return r.DB.QueryRow(`
		INSERT INTO reviews (order_id, customer_id, vendor_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, review.OrderID, review.CustomerID, review.VendorID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
}

func (r *PostgresRepository) ListVendorReviews(vendorID string) ([]domain.Review, error) {
	rows, err := r.DB.Query(`
		SELECT id, order_id, customer_id, vendor_id, rating, COALESCE(comment, ''), created_at
		FROM reviews
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.OrderID, &rev.CustomerID, &rev.VendorID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			continue
		}
		reviews = append(reviews, rev)
	}
	return reviews, nil
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student',
			phone TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS vendors (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			profile_id TEXT NOT NULL,
			business_name TEXT NOT NULL,
			description TEXT,
			address TEXT NOT NULL,
			phone TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			rating NUMERIC(3,2) NOT NULL DEFAULT 0,
			total_orders INTEGER NOT NULL DEFAULT 0,
			delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			min_order_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			vendor_id UUID NOT NULL REFERENCES vendors(id),
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(10,2) NOT NULL,
			category TEXT NOT NULL,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			image_url TEXT,
			preparation_time INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			customer_id TEXT NOT NULL,
			vendor_id UUID NOT NULL REFERENCES vendors(id),
			order_number TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'pending',
			total_amount NUMERIC(10,2) NOT NULL,
			delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			special_instructions TEXT,
			estimated_delivery_time TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_id UUID NOT NULL REFERENCES orders(id),
			menu_item_id UUID NOT NULL REFERENCES menu_items(id),
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			total_price NUMERIC(10,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_id UUID NOT NULL REFERENCES orders(id),
			customer_id TEXT NOT NULL,
			vendor_id UUID NOT NULL REFERENCES vendors(id),
			amount NUMERIC(10,2) NOT NULL,
			payment_method TEXT NOT NULL,
			transaction_id TEXT NOT NULL UNIQUE,
			qr_code_data TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			verified_by TEXT,
			verified_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_id UUID NOT NULL UNIQUE REFERENCES orders(id),
			customer_id TEXT NOT NULL,
			vendor_id UUID NOT NULL REFERENCES vendors(id),
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

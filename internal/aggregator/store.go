package aggregator

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
)

type StoreInterface interface {
	RefreshVendorStats(vendorID string) error
}

// Store recomputes a vendor's aggregate columns from the base tables and
// mirrors them into Redis leaderboards for cheap reads.
type Store struct {
	db  *sql.DB
	rdb *redis.Client
	ctx context.Context
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
		ctx: context.Background(),
	}
}

func (s *Store) RefreshVendorStats(vendorID string) error {
	_, err := s.db.Exec(`
		UPDATE vendors
		SET rating = COALESCE((
			SELECT ROUND(AVG(rating)::numeric, 2)
			FROM reviews
			WHERE vendor_id = $1
		), 0),
		total_orders = (
			SELECT COUNT(*)
			FROM orders
			WHERE vendor_id = $1 AND status = 'delivered'
		)
		WHERE id = $1
	`, vendorID)
	if err != nil {
		return err
	}

	var rating float64
	var totalOrders int
	if err := s.db.QueryRow(`
		SELECT COALESCE(rating, 0), COALESCE(total_orders, 0)
		FROM vendors
		WHERE id = $1
	`, vendorID).Scan(&rating, &totalOrders); err != nil {
		return err
	}

	s.rdb.ZAdd(s.ctx, "vendors:rating", redis.Z{Score: rating, Member: vendorID})
	s.rdb.ZAdd(s.ctx, "vendors:orders", redis.Z{Score: float64(totalOrders), Member: vendorID})
	return nil
}

var _ StoreInterface = (*Store)(nil)

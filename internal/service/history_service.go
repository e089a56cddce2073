package service

import (
	"tiffinbox/internal/domain"

	"github.com/shopspring/decimal"
)

// HistoryService is the customer dashboard read model: past orders with
// nested items and payment status, plus derived aggregates.
type HistoryService struct {
	repo OrderRepository
}

func NewHistoryService(repo OrderRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

func (s *HistoryService) Orders(customerID string) ([]domain.Order, error) {
	return s.repo.ListCustomerOrders(customerID)
}

// ComputeStats derives the dashboard aggregates from an order list. It is
// recomputed on every fetch, never cached. Lifetime spend counts delivered
// orders only; cancelled and in-flight orders never contribute.
func ComputeStats(orders []domain.Order) domain.OrderStats {
	stats := domain.OrderStats{
		Total:      len(orders),
		TotalSpent: decimal.Zero,
	}

	for _, order := range orders {
		switch order.Status {
		case domain.OrderDelivered:
			stats.Completed++
			stats.TotalSpent = stats.TotalSpent.Add(order.TotalAmount)
		case domain.OrderPending, domain.OrderAccepted, domain.OrderPreparing, domain.OrderReady:
			stats.InProgress++
		case domain.OrderCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

var _ HistoryServiceInterface = (*HistoryService)(nil)

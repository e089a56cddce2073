package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tiffinbox/internal/domain"
)

var (
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrOrderNotDelivered = errors.New("only delivered orders can be reviewed")
	ErrDuplicateReview   = errors.New("review already exists for this order")
)

type ReviewService struct {
	repo      ReviewRepository
	cache     ReviewCache
	publisher EventPublisher
}

func NewReviewService(repo ReviewRepository, cache ReviewCache, publisher EventPublisher) *ReviewService {
	return &ReviewService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

// Create records one review for a delivered order owned by the session's
// customer. The vendor id is taken from the order, not the request.
func (s *ReviewService) Create(ctx context.Context, session domain.Session, review *domain.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidRating
	}

	order, err := s.repo.GetCustomerOrder(review.OrderID, session.UserID)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.Status != domain.OrderDelivered {
		return ErrOrderNotDelivered
	}

	cacheKey := s.cache.ReviewMarkerKey(order.ID)
	if exists, _ := s.cache.Exists(ctx, cacheKey); exists {
		return ErrDuplicateReview
	}
	if exists, err := s.repo.HasReview(order.ID); err != nil {
		return fmt.Errorf("check existing review: %w", err)
	} else if exists {
		return ErrDuplicateReview
	}

	review.CustomerID = session.UserID
	review.VendorID = order.VendorID
	if err := s.repo.InsertReview(review); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	_ = s.cache.SetMarker(ctx, cacheKey)

	if s.publisher != nil {
		if err := s.publisher.PublishEvent(ctx, domain.Event{
			Type:       domain.EventNewReview,
			OrderID:    review.OrderID,
			VendorID:   review.VendorID,
			CustomerID: review.CustomerID,
			Rating:     review.Rating,
			Timestamp:  time.Now().UTC(),
		}); err != nil {
			log.Printf("[storefront] failed to publish review event: %v", err)
		}
	}
	return nil
}

func (s *ReviewService) ListVendorReviews(vendorID string) ([]domain.Review, error) {
	return s.repo.ListVendorReviews(vendorID)
}

var _ ReviewServiceInterface = (*ReviewService)(nil)

package aggregator

import (
	"testing"
	"time"

	"tiffinbox/internal/domain"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) RefreshVendorStats(vendorID string) error {
	args := m.Called(vendorID)
	return args.Error(0)
}

func TestProcessEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       domain.Event
		wantRefresh bool
	}{
		{
			name:        "order placed refreshes vendor stats",
			event:       domain.Event{Type: domain.EventOrderPlaced, VendorID: "v1", Timestamp: time.Now()},
			wantRefresh: true,
		},
		{
			name:        "new review refreshes vendor stats",
			event:       domain.Event{Type: domain.EventNewReview, VendorID: "v1", Rating: 5, Timestamp: time.Now()},
			wantRefresh: true,
		},
		{
			name:  "unknown event type is ignored",
			event: domain.Event{Type: "vendor_updated", VendorID: "v1"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := new(mockStore)
			store.On("RefreshVendorStats", "v1").Return(nil)

			consumer := NewConsumer(nil, store)
			consumer.ProcessEvent(testCase.event)

			if testCase.wantRefresh {
				store.AssertCalled(t, "RefreshVendorStats", "v1")
			} else {
				store.AssertNotCalled(t, "RefreshVendorStats", mock.Anything)
			}
		})
	}
}

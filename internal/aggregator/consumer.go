package aggregator

import (
	"context"
	"encoding/json"
	"log"

	"tiffinbox/internal/domain"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	Reader *kafka.Reader
	Store  StoreInterface
}

func NewConsumer(reader *kafka.Reader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting aggregation consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			log.Printf("Error reading message: %v", err)
			continue
		}

		var event domain.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling event: %v", err)
			continue
		}

		c.ProcessEvent(event)
	}
}

// ProcessEvent refreshes vendor aggregates for both order placements and
// new reviews; either can move the rating or completed-order count.
func (c *Consumer) ProcessEvent(event domain.Event) {
	switch event.Type {
	case domain.EventOrderPlaced, domain.EventNewReview:
	default:
		return
	}

	log.Printf("Processing %s event for vendor %s", event.Type, event.VendorID)

	if err := c.Store.RefreshVendorStats(event.VendorID); err != nil {
		log.Printf("Error refreshing vendor stats: %v", err)
		return
	}
}

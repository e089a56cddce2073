package main

import (
	"context"

	"tiffinbox/config"
	"tiffinbox/internal/aggregator"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	redisClient := config.MustInitRedis()
	defer redisClient.Close()

	reader := config.NewKafkaReader("storefront-events", "aggregator")
	defer reader.Close()

	store := aggregator.NewStore(db, redisClient)
	consumer := aggregator.NewConsumer(reader, store)
	consumer.Start(context.Background())
}

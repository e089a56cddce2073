package main

import (
	"log"

	"tiffinbox/config"
	httpapi "tiffinbox/internal/api/http"
	"tiffinbox/internal/cart"
	"tiffinbox/internal/service"
	"tiffinbox/internal/storage"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	redisClient := config.MustInitRedis()
	defer redisClient.Close()

	kafkaWriter := config.NewKafkaWriter("storefront-events")
	defer kafkaWriter.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	redisStore := storage.NewRedisStore(redisClient, config.QuoteTTL())
	publisher := storage.NewKafkaPublisher(kafkaWriter)
	carts := cart.NewStore()

	catalogSvc := service.NewCatalogService(repo)
	profileSvc := service.NewProfileService(repo)
	orderSvc := service.NewOrderService(repo, repo, redisStore, publisher,
		service.PNGQRGenerator{Size: 256}, config.UPIPayee())
	historySvc := service.NewHistoryService(repo)
	reviewSvc := service.NewReviewService(repo, redisStore, publisher)

	handler := httpapi.NewHandler(catalogSvc, profileSvc, orderSvc, historySvc, reviewSvc, carts)
	httpapi.StartServer(config.HTTPAddr(), httpapi.NewRouter(handler))
}

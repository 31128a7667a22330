package main

import (
	"context"
	"log"

	"renthub/internal/config"
	"renthub/internal/database"
	"renthub/internal/modules/sweeper"
	"renthub/internal/repository"
)

// Destructive cleanup runs out of band, never from the request path: items
// whose rental history has fully expired are removed with their bookings
// and notifications. Intended to be scheduled (cron or similar).
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	itemRepo := repository.NewItemRepository(db)
	svc := sweeper.NewService(bookingRepo, itemRepo)

	res := svc.SweepExpired(context.Background())
	purged := svc.Purge(context.Background())

	log.Printf("retention completed: bookings_retired=%d items_purged=%d",
		res.BookingsRetired, purged.ItemsPurged)
}

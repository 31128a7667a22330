package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"renthub/internal/database"
	"renthub/internal/domain"
	"renthub/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	db, err := database.Connect("renthub.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM ratings")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM items")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	items := repository.NewItemRepository(db)
	bookings := repository.NewBookingRepository(db)

	log.Println("Creating users...")
	emails := []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	created := make([]*domain.User, 0, len(emails))
	for i, email := range emails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		u := &domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Name:         fmt.Sprintf("User %d", i+1),
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("user create failed:", err)
		}
		created = append(created, u)
	}
	log.Println("Users created (password: password123)")

	log.Println("Creating items...")
	seedItems := []struct {
		owner int
		title string
		price float64
	}{
		{0, "Mountain bike", 25},
		{0, "DSLR camera kit", 50},
		{1, "Camping tent (4p)", 18},
		{2, "Cordless drill", 12},
	}
	var itemRows []*domain.Item
	for _, si := range seedItems {
		it := &domain.Item{
			OwnerID:     created[si.owner].ID,
			Title:       si.title,
			PricePerDay: si.price,
		}
		if err := items.Create(ctx, it); err != nil {
			log.Fatal("item create failed:", err)
		}
		itemRows = append(itemRows, it)
	}

	log.Println("Creating a pending booking request...")
	start := time.Now().AddDate(0, 0, 2)
	end := start.AddDate(0, 0, 4)
	b := &domain.Booking{
		ItemID:    itemRows[2].ID,
		RenterID:  created[0].ID,
		StartDate: start,
		EndDate:   end,
		Status:    domain.BookingPending,
		TotalDays: 5,
		TotalCost: 5 * itemRows[2].PricePerDay,
	}
	if err := bookings.CreateIfAvailable(ctx, b); err != nil {
		log.Fatal("booking create failed:", err)
	}

	log.Println("Seed completed")
}

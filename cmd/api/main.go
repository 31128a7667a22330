package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"renthub/internal/config"
	"renthub/internal/database"
	"renthub/internal/middleware"
	"renthub/internal/modules/auth"
	"renthub/internal/modules/booking"
	"renthub/internal/modules/item"
	"renthub/internal/modules/notification"
	"renthub/internal/modules/rating"
	"renthub/internal/modules/sweeper"
	jwtsvc "renthub/internal/pkg/jwt"
	"renthub/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService, hub)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	itemService := item.NewService(itemRepo, bookingRepo)
	itemHandler := item.NewHandler(itemService)

	bookingService := booking.NewService(bookingRepo, itemRepo, notificationService)
	bookingHandler := booking.NewHandler(bookingService)

	ratingService := rating.NewService(ratingRepo, userRepo)
	ratingHandler := rating.NewHandler(ratingService)

	sweepService := sweeper.NewService(bookingRepo, itemRepo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweepService.Run(ctx, cfg.SweepInterval)

	r := gin.Default()
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		itemHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			itemHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			ratingHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}

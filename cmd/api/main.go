package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"studiobooking/internal/config"
	"studiobooking/internal/database"
	"studiobooking/internal/middleware"
	"studiobooking/internal/modules/auth"
	"studiobooking/internal/modules/booking"
	"studiobooking/internal/modules/catalog"
	"studiobooking/internal/modules/live"
	jwtsvc "studiobooking/internal/pkg/jwt"
	"studiobooking/internal/pkg/reference"
	"studiobooking/internal/repository"
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
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	studioRepo := repository.NewStudioRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := live.NewHub()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(studioRepo, bookingRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, studioRepo, reference.NewGenerator(nil), hub)
	bookingHandler := booking.NewHandler(bookingService)

	liveHandler := live.NewHandler(hub)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		liveHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

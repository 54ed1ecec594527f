package main

import (
	"context"
	"log"
	"time"

	"studiobooking/internal/config"
	"studiobooking/internal/database"
	"studiobooking/internal/domain"
	"studiobooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM studios")

	ctx := context.Background()
	studios := repository.NewStudioRepository(db)

	now := time.Now().UTC()
	for _, s := range sampleStudios(now) {
		studio := s
		if err := studios.Create(ctx, &studio); err != nil {
			log.Fatal("seed studio failed:", err)
		}
		log.Printf("Created studio %q (id=%d)", studio.Name, studio.ID)
	}

	log.Println("Seed complete")
}

func sampleStudios(now time.Time) []domain.Studio {
	return []domain.Studio{
		{
			Name:         "Dream Capture Studio",
			Description:  "Daylight studio with cyclorama wall and full strobe kit",
			Area:         "Gulshan",
			Address:      "House 7, Road 32, Gulshan 1",
			City:         "Dhaka",
			Latitude:     23.7806,
			Longitude:    90.4173,
			PricePerHour: 1500,
			Currency:     domain.DefaultCurrency,
			Capacity:     12,
			StudioType:   "photography",
			IsActive:     true,
			Rating:       4.7,
			ReviewCount:  42,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			Name:         "Frame & Light",
			Description:  "Compact portrait studio, two backdrop systems",
			Area:         "Banani",
			Address:      "Plot 14, Road 11, Banani",
			City:         "Dhaka",
			Latitude:     23.7936,
			Longitude:    90.4043,
			PricePerHour: 900,
			Currency:     domain.DefaultCurrency,
			Capacity:     6,
			StudioType:   "photography",
			IsActive:     true,
			Rating:       4.3,
			ReviewCount:  18,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			Name:         "Uttara Sound Room",
			Description:  "Treated room for voice-over and podcast sessions",
			Area:         "Uttara",
			Address:      "Sector 4, Road 9, Uttara",
			City:         "Dhaka",
			Latitude:     23.8759,
			Longitude:    90.3795,
			PricePerHour: 1200,
			Currency:     domain.DefaultCurrency,
			Capacity:     4,
			StudioType:   "recording",
			IsActive:     true,
			Rating:       4.9,
			ReviewCount:  31,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			Name:         "Old Town Loft",
			Description:  "Heritage interior for fashion and editorial shoots",
			Area:         "Lalbagh",
			Address:      "22 Water Works Road, Lalbagh",
			City:         "Dhaka",
			Latitude:     23.7196,
			Longitude:    90.3880,
			PricePerHour: 2000,
			Currency:     domain.DefaultCurrency,
			Capacity:     15,
			StudioType:   "photography",
			IsActive:     false,
			Rating:       4.1,
			ReviewCount:  9,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

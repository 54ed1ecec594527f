package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Registers the cgo-free "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Connect opens the booking database. Postgres URLs get the postgres driver;
// anything else is treated as a SQLite path (pure-Go driver, works for
// local development and in-memory test databases).
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("database: connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("database: using SQLite at", dsn)
	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

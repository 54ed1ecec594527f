package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the persistence schema. On Postgres it also
// installs an exclusion constraint so two active bookings of the same studio
// can never hold overlapping ranges on the same date, even if both writers
// passed the availability check.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&studioModel{},
		&bookingModel{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}
	if err := db.Exec("ALTER TABLE bookings DROP CONSTRAINT IF EXISTS no_overlapping_bookings").Error; err != nil {
		return err
	}
	return db.Exec(`ALTER TABLE bookings ADD CONSTRAINT no_overlapping_bookings
		EXCLUDE USING gist (
			studio_id WITH =,
			date WITH =,
			int4range(start_minute, end_minute) WITH &&
		) WHERE (status <> 'cancelled')`).Error
}

// NoOverlapConstraint is the Postgres exclusion constraint name; a write
// rejected by it means another booking won the slot first.
const NoOverlapConstraint = "no_overlapping_bookings"

package database

import (
	"renthub/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	models := []any{
		&domain.User{},
		&domain.Item{},
		&domain.Booking{},
		&domain.Notification{},
		&domain.Rating{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}

	if db.Dialector.Name() == "postgres" {
		// Backstop for the create-booking race: two approved bookings for the
		// same item must never share a date. 23P01 on this constraint
		// surfaces as a conflict to the losing request.
		res := db.Exec(`
CREATE EXTENSION IF NOT EXISTS btree_gist;
ALTER TABLE bookings DROP CONSTRAINT IF EXISTS idx_no_double_booking;
ALTER TABLE bookings ADD CONSTRAINT idx_no_double_booking
  EXCLUDE USING gist (
    item_id WITH =,
    tstzrange(start_date, end_date, '[]') WITH &&
  ) WHERE (status = 'approved');
`)
		if res.Error != nil {
			return res.Error
		}
	}

	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_ratings_from_to ON ratings (from_user_id, to_user_id)`).Error
}

package repository

import (
	"context"
	"errors"
	"time"

	"renthub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel results of the transactional availability check. The booking
// module maps these onto its own error set.
var (
	ErrOverlap          = errors.New("booking dates overlap an active booking")
	ErrDuplicateRequest = errors.New("renter already has an active request for this item")
	ErrStatusChanged    = errors.New("booking status changed concurrently")
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	ItemID      int64      `gorm:"column:item_id;index"`
	RenterID    int64      `gorm:"column:renter_id;index"`
	StartDate   time.Time  `gorm:"column:start_date"`
	EndDate     time.Time  `gorm:"column:end_date"`
	Status      string     `gorm:"column:status;index"`
	TotalDays   int        `gorm:"column:total_days"`
	TotalCost   float64    `gorm:"column:total_cost"`
	IsCompleted bool       `gorm:"column:is_completed"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:          m.ID,
		ItemID:      m.ItemID,
		RenterID:    m.RenterID,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Status:      domain.BookingStatus(m.Status),
		TotalDays:   m.TotalDays,
		TotalCost:   m.TotalCost,
		IsCompleted: m.IsCompleted,
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:          b.ID,
		ItemID:      b.ItemID,
		RenterID:    b.RenterID,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		Status:      string(b.Status),
		TotalDays:   b.TotalDays,
		TotalCost:   b.TotalCost,
		IsCompleted: b.IsCompleted,
		CompletedAt: b.CompletedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// lockItem takes a row lock on the item for the duration of tx so racing
// availability checks serialize. SQLite has no FOR UPDATE; its writer lock
// already serializes the transaction.
func (r *BookingRepository) lockItem(tx *gorm.DB, itemID int64) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	var id int64
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Table("items").Select("id").Where("id = ?", itemID).Scan(&id).Error
}

// CreateIfAvailable runs the availability check and the insert in a single
// transaction. Overlap uses inclusive bounds on both sides: an active
// booking with existing.start <= requested.end and existing.end >=
// requested.start conflicts. A renter holding a pending or approved booking
// for the same item is rejected regardless of dates.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockItem(tx, b.ItemID); err != nil {
			return err
		}

		var dup int64
		err := tx.Model(&bookingModel{}).
			Where("item_id = ? AND renter_id = ? AND status IN ?",
				b.ItemID, b.RenterID, []string{"pending", "approved"}).
			Count(&dup).Error
		if err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicateRequest
		}

		var overlap int64
		err = tx.Model(&bookingModel{}).
			Where("item_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
				b.ItemID, []string{"pending", "approved"}, b.EndDate, b.StartDate).
			Count(&overlap).Error
		if err != nil {
			return err
		}
		if overlap > 0 {
			return ErrOverlap
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*b = *toDomainBooking(m)
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByItem(ctx context.Context, itemID int64) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("start_date ASC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListForOwner(ctx context.Context, ownerID int64) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID).
		Order("bookings.created_at DESC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID int64) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("renter_id = ?", renterID).
		Order("created_at DESC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// Approve flips a pending booking to approved and, when the approved window
// contains now, marks the item rented in the same transaction. The status
// update is a compare-and-swap: a concurrent transition makes this a
// no-op reported as ErrStatusChanged.
func (r *BookingRepository) Approve(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", bookingID, "pending").
			Update("status", "approved")
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusChanged
		}

		var m bookingModel
		if err := tx.First(&m, bookingID).Error; err != nil {
			return err
		}

		if !m.StartDate.After(now) && !m.EndDate.Before(now) {
			if err := tx.Model(&itemModel{}).
				Where("id = ?", m.ItemID).
				Update("is_rented", true).Error; err != nil {
				return err
			}
		}

		out = toDomainBooking(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decline flips a pending booking to declined and recomputes the item's
// rented flag from the remaining approved bookings. An expired approved
// booking that the sweeper has not processed yet keeps the flag untouched;
// reclamation belongs to the sweeper.
func (r *BookingRepository) Decline(ctx context.Context, bookingID int64, now time.Time) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", bookingID, "pending").
			Update("status", "declined")
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusChanged
		}

		var m bookingModel
		if err := tx.First(&m, bookingID).Error; err != nil {
			return err
		}

		var covering int64
		err := tx.Model(&bookingModel{}).
			Where("item_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
				m.ItemID, "approved", now, now).
			Count(&covering).Error
		if err != nil {
			return err
		}

		var expired int64
		err = tx.Model(&bookingModel{}).
			Where("item_id = ? AND status = ? AND end_date < ?", m.ItemID, "approved", now).
			Count(&expired).Error
		if err != nil {
			return err
		}

		if covering == 0 && expired == 0 {
			if err := tx.Model(&itemModel{}).
				Where("id = ?", m.ItemID).
				Update("is_rented", false).Error; err != nil {
				return err
			}
		}

		out = toDomainBooking(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel is the renter-side compare-and-swap out of pending.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", bookingID, "pending").
		Update("status", "cancelled")
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStatusChanged
	}
	return r.GetByID(ctx, bookingID)
}

// ItemIDsWithExpiredApproved returns items holding at least one approved
// booking whose window ended before now.
func (r *BookingRepository) ItemIDsWithExpiredApproved(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Distinct("item_id").
		Where("status = ? AND end_date < ?", "approved", now).
		Pluck("item_id", &ids)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return ids, nil
}

// ItemIDsWithRetiredBookings returns items whose rental history is over:
// an approved booking past its end date, or an already-completed one.
// Candidates for the destructive purge sweep.
func (r *BookingRepository) ItemIDsWithRetiredBookings(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Distinct("item_id").
		Where("(status = ? AND end_date < ?) OR status = ?", "approved", now, "completed").
		Pluck("item_id", &ids)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return ids, nil
}

// CompleteExpired retires every expired approved booking of the item and
// clears the rented flag when nothing approved covers now. Guarded by
// status = 'approved' throughout, so a re-run is a no-op.
func (r *BookingRepository) CompleteExpired(ctx context.Context, itemID int64, now time.Time) (int64, error) {
	var retired int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("item_id = ? AND status = ? AND end_date < ?", itemID, "approved", now).
			Updates(map[string]any{
				"status":       "completed",
				"is_completed": true,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		retired = res.RowsAffected

		var covering int64
		err := tx.Model(&bookingModel{}).
			Where("item_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
				itemID, "approved", now, now).
			Count(&covering).Error
		if err != nil {
			return err
		}

		return tx.Model(&itemModel{}).
			Where("id = ?", itemID).
			Update("is_rented", covering > 0).Error
	})
	if err != nil {
		return 0, err
	}
	return retired, nil
}

// HasApprovedCovering reports whether an approved booking window contains now.
// Read paths use this instead of trusting the cached item flag.
func (r *BookingRepository) HasApprovedCovering(ctx context.Context, itemID int64, now time.Time) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("item_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			itemID, "approved", now, now).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// HasFutureApproved reports whether any approved booking is still running or
// upcoming. The purge sweep keeps such items alive.
func (r *BookingRepository) HasFutureApproved(ctx context.Context, itemID int64, now time.Time) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("item_id = ? AND status = ? AND end_date >= ?", itemID, "approved", now).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

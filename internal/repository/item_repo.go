package repository

import (
	"context"
	"encoding/json"
	"time"

	"renthub/internal/domain"

	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

type itemModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id;index"`
	Title       string    `gorm:"column:title"`
	Description *string   `gorm:"column:description"`
	PricePerDay float64   `gorm:"column:price_per_day"`
	IsRented    bool      `gorm:"column:is_rented"`
	Images      *string   `gorm:"column:images"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (itemModel) TableName() string { return "items" }

func toDomainItem(m itemModel) *domain.Item {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	var images []string
	if m.Images != nil && *m.Images != "" {
		_ = json.Unmarshal([]byte(*m.Images), &images)
	}

	return &domain.Item{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: desc,
		PricePerDay: m.PricePerDay,
		IsRented:    m.IsRented,
		Images:      images,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toItemModel(i *domain.Item) itemModel {
	var desc *string
	if i.Description != "" {
		v := i.Description
		desc = &v
	}

	var images *string
	if len(i.Images) > 0 {
		raw, _ := json.Marshal(i.Images)
		v := string(raw)
		images = &v
	}

	return itemModel{
		ID:          i.ID,
		OwnerID:     i.OwnerID,
		Title:       i.Title,
		Description: desc,
		PricePerDay: i.PricePerDay,
		IsRented:    i.IsRented,
		Images:      images,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (r *ItemRepository) Create(ctx context.Context, i *domain.Item) error {
	m := toItemModel(i)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*i = *toDomainItem(m)
	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	var m itemModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainItem(m), nil
}

func (r *ItemRepository) List(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	var ms []itemModel
	tx := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Item, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainItem(m))
	}
	return out, nil
}

func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Item, error) {
	var ms []itemModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Item, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainItem(m))
	}
	return out, nil
}

// DeleteCascade removes the item together with every booking and
// notification that references it. Used only by the purge sweep.
func (r *ItemRepository) DeleteCascade(ctx context.Context, itemID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&notificationModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", itemID).Delete(&bookingModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&itemModel{}, itemID).Error
	})
}

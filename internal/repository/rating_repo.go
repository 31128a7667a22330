package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"renthub/internal/domain"

	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

type ratingModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	FromUserID int64     `gorm:"column:from_user_id;index"`
	ToUserID   int64     `gorm:"column:to_user_id;index"`
	Score      int       `gorm:"column:score"`
	Comment    *string   `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (ratingModel) TableName() string { return "ratings" }

func toDomainRating(m ratingModel) *domain.Rating {
	var comment string
	if m.Comment != nil {
		comment = *m.Comment
	}
	return &domain.Rating{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		Score:      m.Score,
		Comment:    comment,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// Upsert writes the rating for the (from, to) pair, overwriting an existing
// row, and recomputes the recipient's cached average and count in the same
// transaction. The cache is read directly by trust indicators, so it is
// never allowed to go stale.
func (r *RatingRepository) Upsert(ctx context.Context, rt *domain.Rating) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment *string
		if rt.Comment != "" {
			v := rt.Comment
			comment = &v
		}

		var existing ratingModel
		err := tx.Where("from_user_id = ? AND to_user_id = ?", rt.FromUserID, rt.ToUserID).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Score = rt.Score
			existing.Comment = comment
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*rt = *toDomainRating(existing)
		case errors.Is(err, gorm.ErrRecordNotFound):
			m := ratingModel{
				FromUserID: rt.FromUserID,
				ToUserID:   rt.ToUserID,
				Score:      rt.Score,
				Comment:    comment,
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			*rt = *toDomainRating(m)
		default:
			return err
		}

		var agg struct {
			Avg   float64
			Count int64
		}
		err = tx.Model(&ratingModel{}).
			Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
			Where("to_user_id = ?", rt.ToUserID).
			Scan(&agg).Error
		if err != nil {
			return err
		}

		avg := math.Round(agg.Avg*100) / 100
		return tx.Model(&userModel{}).
			Where("id = ?", rt.ToUserID).
			Updates(map[string]any{
				"average_rating": avg,
				"ratings_count":  agg.Count,
			}).Error
	})
}

func (r *RatingRepository) ListForUser(ctx context.Context, toUserID int64) ([]domain.Rating, error) {
	var ms []ratingModel
	tx := r.db.WithContext(ctx).
		Where("to_user_id = ?", toUserID).
		Order("created_at DESC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Rating, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainRating(m))
	}
	return out, nil
}

package rating

import (
	"context"
	"errors"

	"renthub/internal/domain"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Upsert(ctx context.Context, r *domain.Rating) error
	ListForUser(ctx context.Context, toUserID int64) ([]domain.Rating, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Service struct {
	ratings RatingRepository
	users   UserRepository
}

func NewService(ratings RatingRepository, users UserRepository) *Service {
	return &Service{ratings: ratings, users: users}
}

// SubmitRating writes or overwrites the (from, to) rating. The recipient's
// cached average and count are recomputed inside the same transaction as
// the write.
func (s *Service) SubmitRating(ctx context.Context, fromUserID int64, req SubmitRatingRequest) (*domain.Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, ErrValidation
	}
	if fromUserID == req.ToUserID {
		return nil, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, req.ToUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	r := &domain.Rating{
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		Score:      req.Score,
		Comment:    req.Comment,
	}
	if err := s.ratings.Upsert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListForUser(ctx context.Context, toUserID int64) ([]domain.Rating, error) {
	return s.ratings.ListForUser(ctx, toUserID)
}

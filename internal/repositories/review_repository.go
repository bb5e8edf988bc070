package repositories

import (
	"relax_backend/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByEntity(entityID string, kind models.VIPTier, minRating, limit, offset int) ([]models.Review, error)
	AggregateRating(entityID string, kind models.VIPTier) (avg float64, count int64, err error)
	HasUserReviewed(authorID, entityID string, kind models.VIPTier) (bool, error)
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByEntity(entityID string, kind models.VIPTier, minRating, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	query := r.db.
		Where("entity_id = ? AND entity_kind = ? AND status = ?", entityID, kind, models.ReviewStatusApproved)
	if minRating > 0 {
		query = query.Where("rating >= ?", minRating)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) AggregateRating(entityID string, kind models.VIPTier) (float64, int64, error) {
	type aggregate struct {
		Avg   float64
		Count int64
	}
	var agg aggregate
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("entity_id = ? AND entity_kind = ? AND status = ?", entityID, kind, models.ReviewStatusApproved).
		Scan(&agg).Error
	return agg.Avg, agg.Count, err
}

func (r *ReviewRepositoryImpl) HasUserReviewed(authorID, entityID string, kind models.VIPTier) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("author_id = ? AND entity_id = ? AND entity_kind = ?", authorID, entityID, kind).
		Count(&count).Error
	return count > 0, err
}

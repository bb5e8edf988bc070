package services

import (
	"context"

	"relax_backend/internal/dto"
	"relax_backend/internal/logger"
	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
	"relax_backend/pkg/apperrors"
)

// ReviewService - отзывы на анкеты и заведения. После создания отзыва
// агрегат рейтинга сущности пересчитывается и денормализуется в ее строку.
type ReviewService interface {
	Create(ctx context.Context, authorID string, req dto.CreateReviewRequest) (*models.Review, error)
	ListForEntity(entityID string, kind models.VIPTier, criteria dto.ReviewListCriteria) ([]models.Review, error)
}

type ReviewServiceImpl struct {
	reviews   repositories.ReviewRepository
	directory repositories.DirectoryRepository
}

func NewReviewService(reviews repositories.ReviewRepository, directory repositories.DirectoryRepository) ReviewService {
	return &ReviewServiceImpl{reviews: reviews, directory: directory}
}

func (s *ReviewServiceImpl) Create(ctx context.Context, authorID string, req dto.CreateReviewRequest) (*models.Review, error) {
	kind := models.VIPTier(req.EntityKind)
	if !models.ValidVIPTier(kind) {
		return nil, apperrors.NewBadRequestError("Unknown entity kind")
	}

	if err := s.ensureEntityExists(req.EntityID, kind); err != nil {
		return nil, err
	}

	if own, err := s.isOwnEntity(authorID, req.EntityID, kind); err != nil {
		return nil, apperrors.InternalError(err)
	} else if own {
		return nil, apperrors.ErrOwnEntityReview
	}

	if reviewed, err := s.reviews.HasUserReviewed(authorID, req.EntityID, kind); err != nil {
		return nil, apperrors.InternalError(err)
	} else if reviewed {
		return nil, apperrors.ErrConflict(nil, "review", "You have already reviewed this listing")
	}

	review := &models.Review{
		EntityID:   req.EntityID,
		EntityKind: kind,
		AuthorID:   authorID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		Status:     models.ReviewStatusApproved,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.recalculateRating(ctx, req.EntityID, kind)

	return review, nil
}

func (s *ReviewServiceImpl) ListForEntity(entityID string, kind models.VIPTier, criteria dto.ReviewListCriteria) ([]models.Review, error) {
	if !models.ValidVIPTier(kind) {
		return nil, apperrors.NewBadRequestError("Unknown entity kind")
	}
	page := criteria.Page
	if page < 1 {
		page = 1
	}
	size := criteria.PageSize
	if size < 1 || size > 100 {
		size = 20
	}

	reviews, err := s.reviews.FindByEntity(entityID, kind, criteria.MinRating, size, (page-1)*size)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return reviews, nil
}

func (s *ReviewServiceImpl) ensureEntityExists(entityID string, kind models.VIPTier) error {
	var err error
	switch kind {
	case models.VIPTierEmployee:
		_, err = s.directory.FindEmployeeByID(entityID)
	case models.VIPTierEstablishment:
		_, err = s.directory.FindEstablishmentByID(entityID)
	}
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	return nil
}

func (s *ReviewServiceImpl) isOwnEntity(userID, entityID string, kind models.VIPTier) (bool, error) {
	switch kind {
	case models.VIPTierEmployee:
		return s.directory.IsEmployeeLinkedUser(userID, entityID)
	case models.VIPTierEstablishment:
		return s.directory.HasEstablishmentRole(userID, entityID)
	}
	return false, nil
}

// recalculateRating пересчитывает денормализованный рейтинг сущности.
// Неудача пересчета не отменяет созданный отзыв.
func (s *ReviewServiceImpl) recalculateRating(ctx context.Context, entityID string, kind models.VIPTier) {
	avg, count, err := s.reviews.AggregateRating(entityID, kind)
	if err != nil {
		logger.CtxWarn(ctx, "failed to aggregate rating", "entity_id", entityID, "error", err)
		return
	}

	switch kind {
	case models.VIPTierEmployee:
		err = s.directory.UpdateEmployeeRating(entityID, avg, int(count))
	case models.VIPTierEstablishment:
		err = s.directory.UpdateEstablishmentRating(entityID, avg, int(count))
	}
	if err != nil {
		logger.CtxWarn(ctx, "failed to update denormalized rating", "entity_id", entityID, "error", err)
	}
}

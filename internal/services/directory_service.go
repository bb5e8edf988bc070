package services

import (
	"context"
	"errors"

	"relax_backend/internal/dto"
	"relax_backend/internal/logger"
	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
	"relax_backend/pkg/apperrors"
)

// BoostedLister отдает ID сущностей с действующим VIP-размещением
type BoostedLister interface {
	BoostedEntityIDs(ctx context.Context, tier models.VIPTier) ([]string, error)
}

// DirectoryService - каталог анкет и заведений. В списках сущности
// с действующим VIP поднимаются наверх, внутри групп порядок
// репозитория сохраняется.
type DirectoryService interface {
	CreateEmployee(userID string, req dto.CreateEmployeeRequest) (*models.EmployeeProfile, error)
	GetEmployee(id string) (*models.EmployeeProfile, error)
	ListEmployees(ctx context.Context, criteria dto.DirectoryListCriteria) ([]models.EmployeeProfile, error)

	CreateEstablishment(userID string, req dto.CreateEstablishmentRequest) (*models.Establishment, error)
	GetEstablishment(id string) (*models.Establishment, error)
	ListEstablishments(ctx context.Context, criteria dto.DirectoryListCriteria) ([]models.Establishment, error)
}

type DirectoryServiceImpl struct {
	repo    repositories.DirectoryRepository
	boosted BoostedLister
}

func NewDirectoryService(repo repositories.DirectoryRepository, boosted BoostedLister) DirectoryService {
	return &DirectoryServiceImpl{repo: repo, boosted: boosted}
}

func (s *DirectoryServiceImpl) CreateEmployee(userID string, req dto.CreateEmployeeRequest) (*models.EmployeeProfile, error) {
	profile := &models.EmployeeProfile{
		UserID: &userID,
		Name:   req.Name,
		City:   req.City,
		About:  req.About,
		Age:    req.Age,
	}
	profile.SetLanguages(req.Languages)

	if err := s.repo.CreateEmployee(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *DirectoryServiceImpl) GetEmployee(id string) (*models.EmployeeProfile, error) {
	profile, err := s.repo.FindEmployeeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrEmployeeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *DirectoryServiceImpl) ListEmployees(ctx context.Context, criteria dto.DirectoryListCriteria) ([]models.EmployeeProfile, error) {
	limit, offset := pageBounds(criteria)
	profiles, err := s.repo.ListEmployees(criteria.City, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	boosted := s.boostedSet(ctx, models.VIPTierEmployee)
	stableBoostedFirst(profiles, func(p models.EmployeeProfile) bool {
		return boosted[p.ID]
	})
	return profiles, nil
}

func (s *DirectoryServiceImpl) CreateEstablishment(userID string, req dto.CreateEstablishmentRequest) (*models.Establishment, error) {
	est := &models.Establishment{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
	}
	est.SetAmenities(req.Amenities)

	if err := s.repo.CreateEstablishment(est); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Создатель становится owner'ом заведения
	link := &models.EstablishmentManager{
		EstablishmentID: est.ID,
		UserID:          userID,
		Role:            models.StaffRoleOwner,
	}
	if err := s.repo.AddEstablishmentManager(link); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return est, nil
}

func (s *DirectoryServiceImpl) GetEstablishment(id string) (*models.Establishment, error) {
	est, err := s.repo.FindEstablishmentByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrEstablishmentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return est, nil
}

func (s *DirectoryServiceImpl) ListEstablishments(ctx context.Context, criteria dto.DirectoryListCriteria) ([]models.Establishment, error) {
	limit, offset := pageBounds(criteria)
	ests, err := s.repo.ListEstablishments(criteria.City, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	boosted := s.boostedSet(ctx, models.VIPTierEstablishment)
	stableBoostedFirst(ests, func(e models.Establishment) bool {
		return boosted[e.ID]
	})
	return ests, nil
}

// boostedSet загружает множество VIP-сущностей. Отказ источника не
// ломает выдачу каталога: список просто остается без поднятия.
func (s *DirectoryServiceImpl) boostedSet(ctx context.Context, tier models.VIPTier) map[string]bool {
	if s.boosted == nil {
		return nil
	}
	ids, err := s.boosted.BoostedEntityIDs(ctx, tier)
	if err != nil {
		logger.CtxWarn(ctx, "failed to load boosted entities", "tier", tier, "error", err)
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// stableBoostedFirst поднимает VIP-элементы в начало среза,
// сохраняя относительный порядок внутри обеих групп
func stableBoostedFirst[T any](items []T, isBoosted func(T) bool) {
	sorted := make([]T, 0, len(items))
	var rest []T
	for _, item := range items {
		if isBoosted(item) {
			sorted = append(sorted, item)
		} else {
			rest = append(rest, item)
		}
	}
	copy(items, append(sorted, rest...))
}

func pageBounds(criteria dto.DirectoryListCriteria) (limit, offset int) {
	page := criteria.Page
	if page < 1 {
		page = 1
	}
	size := criteria.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}

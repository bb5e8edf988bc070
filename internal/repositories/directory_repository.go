package repositories

import (
	"errors"

	"relax_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound      = errors.New("employee profile not found")
	ErrEstablishmentNotFound = errors.New("establishment not found")
)

// DirectoryRepository - данные каталога: анкеты, заведения и связи
// владения/найма, на которых держится авторизация VIP-операций.
type DirectoryRepository interface {
	// Employee profiles
	CreateEmployee(profile *models.EmployeeProfile) error
	FindEmployeeByID(id string) (*models.EmployeeProfile, error)
	ListEmployees(city string, limit, offset int) ([]models.EmployeeProfile, error)

	// Establishments
	CreateEstablishment(est *models.Establishment) error
	FindEstablishmentByID(id string) (*models.Establishment, error)
	ListEstablishments(city string, limit, offset int) ([]models.Establishment, error)
	AddEstablishmentManager(link *models.EstablishmentManager) error

	// Ownership / management lookups
	IsEmployeeLinkedUser(userID, employeeID string) (bool, error)
	HasEstablishmentRole(userID, establishmentID string) (bool, error)
	ManagesEmployerOf(userID, employeeID string) (bool, error)

	// Rating aggregation
	UpdateEmployeeRating(id string, rating float64, count int) error
	UpdateEstablishmentRating(id string, rating float64, count int) error
}

type DirectoryRepositoryImpl struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &DirectoryRepositoryImpl{db: db}
}

// Employee profiles

func (r *DirectoryRepositoryImpl) CreateEmployee(profile *models.EmployeeProfile) error {
	return r.db.Create(profile).Error
}

func (r *DirectoryRepositoryImpl) FindEmployeeByID(id string) (*models.EmployeeProfile, error) {
	var profile models.EmployeeProfile
	err := r.db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *DirectoryRepositoryImpl) ListEmployees(city string, limit, offset int) ([]models.EmployeeProfile, error) {
	var profiles []models.EmployeeProfile
	query := r.db.Where("is_public = ?", true)
	if city != "" {
		query = query.Where("city = ?", city)
	}
	err := query.Limit(limit).Offset(offset).Order("rating DESC").Find(&profiles).Error
	return profiles, err
}

// Establishments

func (r *DirectoryRepositoryImpl) CreateEstablishment(est *models.Establishment) error {
	return r.db.Create(est).Error
}

func (r *DirectoryRepositoryImpl) FindEstablishmentByID(id string) (*models.Establishment, error) {
	var est models.Establishment
	err := r.db.First(&est, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstablishmentNotFound
		}
		return nil, err
	}
	return &est, nil
}

func (r *DirectoryRepositoryImpl) ListEstablishments(city string, limit, offset int) ([]models.Establishment, error) {
	var ests []models.Establishment
	query := r.db.Where("is_public = ?", true)
	if city != "" {
		query = query.Where("city = ?", city)
	}
	err := query.Limit(limit).Offset(offset).Order("rating DESC").Find(&ests).Error
	return ests, err
}

func (r *DirectoryRepositoryImpl) AddEstablishmentManager(link *models.EstablishmentManager) error {
	return r.db.Create(link).Error
}

// Ownership / management lookups

// IsEmployeeLinkedUser - является ли пользователь владельцем анкеты
func (r *DirectoryRepositoryImpl) IsEmployeeLinkedUser(userID, employeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.EmployeeProfile{}).
		Where("id = ? AND user_id = ?", employeeID, userID).
		Count(&count).Error
	return count > 0, err
}

// HasEstablishmentRole - владеет/управляет ли пользователь заведением
func (r *DirectoryRepositoryImpl) HasEstablishmentRole(userID, establishmentID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.EstablishmentManager{}).
		Where("user_id = ? AND establishment_id = ?", userID, establishmentID).
		Count(&count).Error
	return count > 0, err
}

// ManagesEmployerOf - управляет ли пользователь заведением,
// в котором сейчас работает сотрудник
func (r *DirectoryRepositoryImpl) ManagesEmployerOf(userID, employeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.EstablishmentManager{}).
		Joins("JOIN establishment_staffs s ON s.establishment_id = establishment_managers.establishment_id").
		Where("establishment_managers.user_id = ? AND s.employee_id = ? AND s.is_active = ?", userID, employeeID, true).
		Count(&count).Error
	return count > 0, err
}

// Rating aggregation

func (r *DirectoryRepositoryImpl) UpdateEmployeeRating(id string, rating float64, count int) error {
	return r.db.Model(&models.EmployeeProfile{}).Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "review_count": count}).Error
}

func (r *DirectoryRepositoryImpl) UpdateEstablishmentRating(id string, rating float64, count int) error {
	return r.db.Model(&models.Establishment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "review_count": count}).Error
}

package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Establishment - заведение в каталоге
type Establishment struct {
	BaseModel
	Name        string         `gorm:"not null" json:"name"`
	City        string         `gorm:"not null;index" json:"city"`
	Address     string         `json:"address"`
	Description string         `json:"description"`
	Amenities   datatypes.JSON `gorm:"type:jsonb" json:"amenities"` // ["парковка", "кальян"]
	Rating      float64        `gorm:"default:0" json:"rating"`
	ReviewCount int            `gorm:"default:0" json:"review_count"`
	IsPublic    bool           `gorm:"default:true" json:"is_public"`

	// Relations
	Staff    []EstablishmentStaff   `gorm:"foreignKey:EstablishmentID" json:"-"`
	Managers []EstablishmentManager `gorm:"foreignKey:EstablishmentID" json:"-"`
}

// EstablishmentStaff - связь "заведение нанимает сотрудника"
type EstablishmentStaff struct {
	BaseModel
	EstablishmentID string `gorm:"not null;index:idx_staff_est_emp,unique"`
	EmployeeID      string `gorm:"not null;index:idx_staff_est_emp,unique"`
	IsActive        bool   `gorm:"default:true"`
}

// EstablishmentManager - связь "пользователь владеет/управляет заведением"
type EstablishmentManager struct {
	BaseModel
	EstablishmentID string    `gorm:"not null;index:idx_mgr_est_user,unique"`
	UserID          string    `gorm:"not null;index:idx_mgr_est_user,unique"`
	Role            StaffRole `gorm:"type:varchar(20);not null;default:'manager'"`
}

// GetAmenities возвращает удобства заведения как slice строк
func (e *Establishment) GetAmenities() []string {
	var amenities []string
	if len(e.Amenities) > 0 {
		_ = json.Unmarshal(e.Amenities, &amenities)
	}
	return amenities
}

// SetAmenities устанавливает удобства заведения
func (e *Establishment) SetAmenities(amenities []string) {
	data, _ := json.Marshal(amenities)
	e.Amenities = datatypes.JSON(data)
}

package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// EmployeeProfile - анкета сотрудника в каталоге.
// UserID может быть пустым: часть анкет заведена администрацией
// и еще не привязана к аккаунту.
type EmployeeProfile struct {
	BaseModel
	UserID      *string        `gorm:"index" json:"user_id,omitempty"`
	Name        string         `gorm:"not null" json:"name"`
	City        string         `gorm:"not null;index" json:"city"`
	About       string         `json:"about"`
	Age         int            `json:"age"`
	Languages   datatypes.JSON `gorm:"type:jsonb" json:"languages"` // ["русский", "казахский"]
	Rating      float64        `gorm:"default:0" json:"rating"`
	ReviewCount int            `gorm:"default:0" json:"review_count"`
	IsPublic    bool           `gorm:"default:true" json:"is_public"`

	// Relations
	Employments []EstablishmentStaff `gorm:"foreignKey:EmployeeID" json:"-"`
	Reviews     []Review             `gorm:"foreignKey:EntityID" json:"-"`
}

// GetLanguages возвращает языки анкеты как slice строк
func (p *EmployeeProfile) GetLanguages() []string {
	var languages []string
	if len(p.Languages) > 0 {
		_ = json.Unmarshal(p.Languages, &languages)
	}
	return languages
}

// SetLanguages устанавливает языки анкеты
func (p *EmployeeProfile) SetLanguages(languages []string) {
	data, _ := json.Marshal(languages)
	p.Languages = datatypes.JSON(data)
}

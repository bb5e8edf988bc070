package dto

// ======================
// Request DTOs
// ======================

type CreateEmployeeRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=100"`
	City      string   `json:"city" validate:"required,min=2,max=100"`
	About     string   `json:"about" validate:"omitempty,max=2000"`
	Age       int      `json:"age" validate:"omitempty,min=18,max=100"`
	Languages []string `json:"languages" validate:"omitempty,dive,min=2,max=50"`
}

type CreateEstablishmentRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=150"`
	City        string   `json:"city" validate:"required,min=2,max=100"`
	Address     string   `json:"address" validate:"omitempty,max=300"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,min=2,max=50"`
}

// DirectoryListCriteria - фильтры и пагинация списков каталога
type DirectoryListCriteria struct {
	City     string `form:"city" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

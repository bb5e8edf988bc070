package dto

// ======================
// Request DTOs
// ======================

type CreateReviewRequest struct {
	EntityID   string `json:"entity_id" validate:"required,uuid4"`
	EntityKind string `json:"entity_kind" validate:"required,is-vip-tier"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"review_text" validate:"omitempty,max=2000"`
}

// ReviewListCriteria - фильтры списка отзывов
type ReviewListCriteria struct {
	MinRating int `form:"min_rating" validate:"omitempty,min=1,max=5"`
	Page      int `form:"page" validate:"omitempty,min=1"`
	PageSize  int `form:"page_size" validate:"omitempty,min=1,max=100"`
}

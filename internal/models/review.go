package models

// Review - отзыв на анкету сотрудника или заведение.
// EntityID + Tier указывают на оцениваемую сущность той же парой,
// что и VIP-подписки.
type Review struct {
	BaseModel
	EntityID   string  `gorm:"not null;index" json:"entity_id"`
	EntityKind VIPTier `gorm:"type:varchar(30);not null" json:"entity_kind"`
	AuthorID   string  `gorm:"not null;index" json:"author_id"`
	Rating     int     `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	ReviewText string  `json:"review_text"`
	Status     string  `gorm:"default:'approved'" json:"status"`
}

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

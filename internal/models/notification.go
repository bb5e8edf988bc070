package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string         `gorm:"not null;index" json:"user_id"`
	Type    string         `gorm:"not null" json:"type"` // "vip_purchased", "vip_activated", ...
	Title   string         `gorm:"not null" json:"title"`
	Message string         `json:"message"`
	Data    datatypes.JSON `gorm:"type:jsonb" json:"data"` // {"subscription_id": "...", "tier": "..."}
	IsRead  bool           `gorm:"default:false" json:"is_read"`
	ReadAt  *time.Time     `json:"read_at,omitempty"`
}

// Типы уведомлений жизненного цикла VIP
const (
	NotificationVIPPurchased = "vip_purchased"
	NotificationVIPActivated = "vip_activated"
	NotificationVIPRejected  = "vip_rejected"
	NotificationVIPCancelled = "vip_cancelled"
	NotificationVIPExpiring  = "vip_expiring"
)

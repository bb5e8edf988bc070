package dto

import (
	"time"

	"relax_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type PurchaseVIPRequest struct {
	Tier          string `json:"tier" validate:"required,is-vip-tier"`
	EntityID      string `json:"entity_id" validate:"required,uuid4"`
	DurationDays  int    `json:"duration" validate:"required,min=1"`
	PaymentMethod string `json:"payment_method" validate:"required,is-payment-method"`
}

type CancelVIPRequest struct {
	Tier string `json:"tier" validate:"required,is-vip-tier"`
}

type VerifyTransactionRequest struct {
	AdminNotes string `json:"admin_notes" validate:"omitempty,max=2000"`
}

type RejectTransactionRequest struct {
	AdminNotes string `json:"admin_notes" validate:"required,max=2000"`
}

// TransactionListCriteria - фильтры админского списка транзакций
type TransactionListCriteria struct {
	PaymentMethod string `form:"payment_method" validate:"omitempty,is-payment-method"`
	Status        string `form:"status" validate:"omitempty,oneof=pending completed failed"`
}

// ======================
// Response DTOs
// ======================

// PricingOption - строка прайс-листа VIP
type PricingOption struct {
	DurationDays int     `json:"duration_days"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
}

// PurchaseVIPResponse - результат покупки: подписка + транзакция,
// с QR-данными для qr_transfer
type PurchaseVIPResponse struct {
	Subscription *models.VIPSubscription    `json:"subscription"`
	Transaction  *models.PaymentTransaction `json:"transaction"`
}

// ExistingVIPDetails - данные существующей подписки для тела 409
type ExistingVIPDetails struct {
	SubscriptionID string     `json:"subscription_id"`
	Tier           string     `json:"tier"`
	Status         string     `json:"status"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// MySubscriptionsResponse - подписки пользователя, сгруппированные по типу
type MySubscriptionsResponse struct {
	EmployeeProfile []models.VIPSubscription `json:"employee_profile"`
	Establishment   []models.VIPSubscription `json:"establishment"`
}

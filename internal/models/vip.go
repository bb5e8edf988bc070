package models

import "time"

// VIPSubscription - платное VIP-размещение анкеты или заведения.
//
// Инвариант: на пару (EntityID, Tier) одновременно существует не более
// одной подписки в статусе pending_payment или active. Обеспечивается
// частичным уникальным индексом в БД (см. database/migrate.go) и
// per-key блокировкой в сервисе на время покупки.
//
// Статус переходит только вперед: pending_payment -> active,
// pending_payment -> cancelled, active -> cancelled. Строка удаляется
// только компенсацией сразу после создания, если не удалось создать
// платежную транзакцию.
type VIPSubscription struct {
	BaseModel
	Tier        VIPTier   `gorm:"type:varchar(30);not null" json:"tier"`
	EntityID    string    `gorm:"not null;index" json:"entity_id"`
	OwnerUserID string    `gorm:"not null;index" json:"owner_user_id"`
	Status      VIPStatus `gorm:"type:varchar(20);not null;default:'pending_payment'" json:"status"`

	// Запрошенная длительность фиксируется при создании:
	// активация происходит позже, при подтверждении оплаты админом
	DurationDays int `gorm:"not null" json:"duration_days"`

	// Заполняются только при активации
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	PricePaid float64 `gorm:"not null" json:"price_paid"`
	Currency  string  `gorm:"type:varchar(3);default:'KZT'" json:"currency"`

	// Обратная ссылка на транзакцию; NULL до ее создания (двухшаговая связка)
	TransactionID *string `gorm:"index" json:"transaction_id,omitempty"`
}

// IsBoosted сообщает, действует ли VIP-размещение в момент now.
// Истечение ленивое: статус в БД не переписывается в "expired",
// каждый читающий обязан сравнивать ExpiresAt с текущим временем
// и никогда не доверять одному лишь Status.
func (s *VIPSubscription) IsBoosted(now time.Time) bool {
	return s.Status == VIPStatusActive && s.ExpiresAt != nil && s.ExpiresAt.After(now)
}

// IsExpired - производное состояние "истекла": активна по статусу,
// но срок уже прошел
func (s *VIPSubscription) IsExpired(now time.Time) bool {
	return s.Status == VIPStatusActive && s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}

// PaymentTransaction - платеж за VIP-размещение.
// Создается в статусе pending и ровно один раз переходит в completed
// или failed; после этого запись неизменна, кроме полей verified_by /
// verified_at / admin_notes, фиксируемых в момент перехода.
type PaymentTransaction struct {
	BaseModel
	SubscriptionID string        `gorm:"not null;index" json:"subscription_id"`
	Amount         float64       `gorm:"not null" json:"amount"`
	Currency       string        `gorm:"type:varchar(3);default:'KZT'" json:"currency"`
	Method         PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status         PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	// Только для qr_transfer
	QRCode      string `json:"qr_code,omitempty"`
	QRReference string `gorm:"index" json:"qr_reference,omitempty"`

	// Заполняются при verify/reject
	AdminNotes string     `json:"admin_notes,omitempty"`
	VerifiedBy *string    `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	// Relations
	Subscription *VIPSubscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
}

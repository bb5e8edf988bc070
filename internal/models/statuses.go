package models

type UserStatus string
type UserRole string
type VIPTier string
type VIPStatus string
type PaymentStatus string
type PaymentMethod string
type StaffRole string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	// Типы VIP-размещения: профиль сотрудника или заведение
	VIPTierEmployee      VIPTier = "employee_profile"
	VIPTierEstablishment VIPTier = "establishment"

	// pending_payment -> active -> cancelled; "expired" - производное
	// состояние на чтении (ExpiresAt в прошлом при status=active),
	// в БД оно не хранится
	VIPStatusPendingPayment VIPStatus = "pending_payment"
	VIPStatusActive         VIPStatus = "active"
	VIPStatusCancelled      VIPStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"

	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodQRTransfer PaymentMethod = "qr_transfer"

	// Роли пользователя в заведении
	StaffRoleOwner   StaffRole = "owner"
	StaffRoleManager StaffRole = "manager"
)

// ValidVIPTier проверяет, что tier - один из двух поддерживаемых типов
func ValidVIPTier(t VIPTier) bool {
	return t == VIPTierEmployee || t == VIPTierEstablishment
}

// ValidPaymentMethod проверяет способ оплаты
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodCash || m == PaymentMethodQRTransfer
}

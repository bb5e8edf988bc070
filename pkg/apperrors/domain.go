package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок бизнес-логики платформы.
Предопределенные переменные не мутируются: WithDetails/WithError возвращают копию.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (оборачивание ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrTransactionCreationFailed - не удалось создать платежную транзакцию (500).
// Компенсация (удаление pending-подписки) к этому моменту уже выполнена
// или зафиксирована в логе как data-integrity warning.
func ErrTransactionCreationFailed(err error) *AppError {
	return Wrap(err, CodeTransactionCreateFailed, "payment", "Failed to create payment transaction", http.StatusInternalServerError)
}

// =========================================================================
// Auth & Users
// =========================================================================

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidCredentials - неверный email или пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен (refresh, verify).
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrEmailAlreadyExists - email уже используется.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrUserSuspended - аккаунт временно заблокирован.
var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)

// ErrWeakPassword - пароль слишком слабый.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// =========================================================================
// VIP-размещение
// =========================================================================

// ErrInvalidVIPTier - неизвестный тип VIP-размещения.
var ErrInvalidVIPTier = New(
	CodeValidationFailed,
	"vip",
	"Invalid VIP tier",
	http.StatusBadRequest,
)

// ErrInvalidVIPDuration - длительность не входит в опубликованную сетку тарифов.
var ErrInvalidVIPDuration = New(
	CodeValidationFailed,
	"vip",
	"Invalid duration: not a published VIP option",
	http.StatusBadRequest,
)

// ErrVIPAlreadyActive - для сущности уже есть pending или активная VIP-подписка.
// Details заполняются данными существующей подписки через WithDetails.
var ErrVIPAlreadyActive = New(
	CodeConflict,
	"vip",
	"An active or pending VIP subscription already exists for this entity",
	http.StatusConflict,
)

// ErrVIPNotActive - отмена возможна только для активной подписки.
var ErrVIPNotActive = New(
	CodeInvalidStatus,
	"vip",
	"Subscription is not active",
	http.StatusBadRequest,
)

// =========================================================================
// Платежи
// =========================================================================

// ErrAlreadyProcessed - транзакция уже подтверждена или отклонена.
var ErrAlreadyProcessed = New(
	CodeAlreadyProcessed,
	"payment",
	"Transaction has already been processed",
	http.StatusBadRequest,
)

// ErrPaymentMethodUnavailable - платежный канал не сконфигурирован.
var ErrPaymentMethodUnavailable = New(
	CodePaymentMethodUnavail,
	"payment",
	"Payment method is not available",
	http.StatusBadRequest,
)

// ErrInvalidPaymentMethod - способ оплаты не поддерживает ручное подтверждение.
var ErrInvalidPaymentMethod = New(
	CodeInvalidPaymentMethod,
	"payment",
	"Manual verification is not supported for this payment method",
	http.StatusBadRequest,
)

// =========================================================================
// Отзывы
// =========================================================================

// ErrOwnEntityReview - нельзя оставить отзыв на собственный профиль/заведение.
var ErrOwnEntityReview = New(
	CodeInvalidOperation,
	"review",
	"You cannot review your own listing",
	http.StatusBadRequest,
)

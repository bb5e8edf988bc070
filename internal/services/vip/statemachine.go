package vip

import (
	"time"

	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
	"relax_backend/pkg/apperrors"
)

// StateMachine выполняет переходы жизненного цикла подписки.
// Каждый переход однократен: повторный вызов для той же подписки
// не находит строку в исходном статусе и возвращает ошибку,
// а не повторяет мутацию.
type StateMachine struct {
	repo repositories.VIPRepository
	now  func() time.Time
}

func NewStateMachine(repo repositories.VIPRepository) *StateMachine {
	return &StateMachine{repo: repo, now: time.Now}
}

// CreatePending создает подписку в статусе ожидания оплаты.
// Сроки действия не проставляются: отсчет начинается с активации.
func (m *StateMachine) CreatePending(tier models.VIPTier, entityID, ownerID string, durationDays int, price Price) (*models.VIPSubscription, error) {
	sub := &models.VIPSubscription{
		Tier:         tier,
		EntityID:     entityID,
		OwnerUserID:  ownerID,
		Status:       models.VIPStatusPendingPayment,
		DurationDays: durationDays,
		PricePaid:    price.Amount,
		Currency:     price.Currency,
	}
	if err := m.repo.CreateSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Activate переводит pending_payment -> active и фиксирует сроки:
// starts_at = момент подтверждения, expires_at = starts_at + duration.
func (m *StateMachine) Activate(sub *models.VIPSubscription) (*models.VIPSubscription, error) {
	startsAt := m.now()
	expiresAt := startsAt.AddDate(0, 0, sub.DurationDays)

	ok, err := m.repo.ActivateSubscription(sub.ID, startsAt, expiresAt)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidOperation("vip", "Subscription is not awaiting payment")
	}

	sub.Status = models.VIPStatusActive
	sub.StartsAt = &startsAt
	sub.ExpiresAt = &expiresAt
	return sub, nil
}

// Cancel - пользовательская отмена: active -> cancelled
func (m *StateMachine) Cancel(subscriptionID string) error {
	ok, err := m.repo.CancelSubscription(subscriptionID, models.VIPStatusActive)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrVIPNotActive
	}
	return nil
}

// CancelPending - отмена при отклонении платежа: pending_payment -> cancelled.
// Возвращает false, если подписка уже покинула pending_payment.
func (m *StateMachine) CancelPending(subscriptionID string) (bool, error) {
	ok, err := m.repo.CancelSubscription(subscriptionID, models.VIPStatusPendingPayment)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return ok, nil
}

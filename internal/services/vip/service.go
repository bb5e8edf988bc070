package vip

import (
	"context"
	"errors"
	"time"

	"relax_backend/internal/cache"
	"relax_backend/internal/dto"
	"relax_backend/internal/logger"
	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
	"relax_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Notifier получает события жизненного цикла VIP. Вызовы выполняются
// в отдельных горутинах: ошибки логируются и никогда не влияют на
// результат операции.
type Notifier interface {
	VIPPurchased(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction)
	VIPActivated(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction)
	VIPRejected(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction, reason string)
	VIPCancelled(ctx context.Context, sub *models.VIPSubscription)
}

// Service - оркестратор жизненного цикла VIP-подписок:
// покупка, подтверждение/отклонение оплаты, отмена.
type Service struct {
	repo    repositories.VIPRepository
	pricing *Pricing
	access  *Access
	ledger  *Ledger
	machine *StateMachine

	notifier Notifier
	boosted  *cache.BoostedCache
	locks    *entityLocks
}

func NewService(
	repo repositories.VIPRepository,
	pricing *Pricing,
	access *Access,
	ledger *Ledger,
	machine *StateMachine,
	notifier Notifier,
	boosted *cache.BoostedCache,
) *Service {
	return &Service{
		repo:     repo,
		pricing:  pricing,
		access:   access,
		ledger:   ledger,
		machine:  machine,
		notifier: notifier,
		boosted:  boosted,
		locks:    newEntityLocks(),
	}
}

// Purchase создает pending-подписку и pending-транзакцию для оплаты.
//
// Проверка дубликата, создание подписки и создание транзакции идут под
// per-(entity, tier) блокировкой; частичный уникальный индекс в БД
// подстраховывает от конкурентов на других инстансах. Если транзакцию
// создать не удалось, pending-подписка удаляется компенсацией.
func (s *Service) Purchase(ctx context.Context, userID string, req dto.PurchaseVIPRequest) (*dto.PurchaseVIPResponse, error) {
	tier := models.VIPTier(req.Tier)
	method := models.PaymentMethod(req.PaymentMethod)
	if !models.ValidVIPTier(tier) {
		return nil, apperrors.ErrInvalidVIPTier
	}
	if !models.ValidPaymentMethod(method) {
		return nil, apperrors.NewBadRequestError("Unknown payment method")
	}

	price, err := s.pricing.Resolve(tier, req.DurationDays)
	if err != nil {
		return nil, err
	}

	if !s.access.CanPurchase(ctx, userID, tier, req.EntityID) {
		return nil, apperrors.NewForbiddenError("You are not allowed to purchase VIP for this listing")
	}

	unlock := s.locks.Lock(req.EntityID + ":" + string(tier))
	defer unlock()

	existing, err := s.repo.FindCurrentSubscription(req.EntityID, tier)
	if err != nil && !errors.Is(err, repositories.ErrVIPSubscriptionNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if existing != nil {
		return nil, apperrors.ErrVIPAlreadyActive.WithDetails(dto.ExistingVIPDetails{
			SubscriptionID: existing.ID,
			Tier:           string(existing.Tier),
			Status:         string(existing.Status),
			ExpiresAt:      existing.ExpiresAt,
		})
	}

	sub, err := s.machine.CreatePending(tier, req.EntityID, userID, req.DurationDays, price)
	if err != nil {
		// Гонку, проскочившую блокировку, ловит частичный уникальный
		// индекс: только его нарушение отдаем как конфликт, остальные
		// ошибки хранилища клиент видит как 500
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict(err, "vip", "An active or pending VIP subscription already exists for this entity")
		}
		return nil, apperrors.InternalError(err)
	}

	tx, err := s.ledger.Create(sub.ID, price.Amount, price.Currency, method)
	if err != nil {
		s.compensate(ctx, sub.ID)
		return nil, err
	}

	if err := s.repo.LinkTransaction(sub.ID, tx.ID); err != nil {
		// Транзакция уже несет subscription_id, теряется только
		// обратная ссылка; фиксируем и не валим покупку
		logger.CtxError(ctx, "failed to link transaction to subscription, back-reference missing",
			"subscription_id", sub.ID, "transaction_id", tx.ID, "error", err)
	} else {
		sub.TransactionID = &tx.ID
	}

	if s.notifier != nil {
		go s.notifier.VIPPurchased(context.WithoutCancel(ctx), sub, tx)
	}

	return &dto.PurchaseVIPResponse{Subscription: sub, Transaction: tx}, nil
}

// compensate удаляет pending-подписку, оставшуюся без транзакции.
// Неудача компенсации не меняет ответ клиенту, но обязана попасть в лог:
// осиротевшая pending-строка блокирует повторную покупку до ручной чистки.
func (s *Service) compensate(ctx context.Context, subscriptionID string) {
	if err := s.repo.DeleteSubscription(subscriptionID); err != nil {
		logger.CtxError(ctx, "data integrity: failed to delete orphaned pending subscription",
			"subscription_id", subscriptionID, "error", err)
	}
}

// VerifyPayment подтверждает cash-платеж и активирует подписку.
// Только для админов; qr_transfer ручному подтверждению не подлежит.
func (s *Service) VerifyPayment(ctx context.Context, adminID string, role models.UserRole, transactionID, notes string) (*models.VIPSubscription, error) {
	if !s.access.CanVerify(role) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx, err := s.repo.FindTransactionByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.ledger.MarkVerified(tx, adminID, notes, time.Now()); err != nil {
		return nil, err
	}

	sub, err := s.repo.FindSubscriptionByID(tx.SubscriptionID)
	if err != nil {
		// Транзакция уже completed, подписка осталась pending_payment:
		// повторный verify упрется в AlreadyProcessed, чинится руками
		logger.CtxError(ctx, "data integrity: transaction completed but subscription load failed",
			"transaction_id", tx.ID,
			"subscription_id", tx.SubscriptionID,
			"error", err)
		return nil, apperrors.InternalError(err)
	}

	sub, err = s.machine.Activate(sub)
	if err != nil {
		logger.CtxError(ctx, "data integrity: transaction completed but subscription activation failed",
			"transaction_id", tx.ID,
			"subscription_id", sub.ID,
			"error", err)
		return nil, err
	}

	s.invalidateBoosted(ctx, sub.Tier)

	if s.notifier != nil {
		go s.notifier.VIPActivated(context.WithoutCancel(ctx), sub, tx)
	}

	return sub, nil
}

// RejectPayment отклоняет платеж (cash или qr_transfer) и отменяет
// связанную pending-подписку. Причина обязательна.
func (s *Service) RejectPayment(ctx context.Context, adminID string, role models.UserRole, transactionID, notes string) (*models.PaymentTransaction, error) {
	if !s.access.CanReject(role) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx, err := s.repo.FindTransactionByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.ledger.MarkRejected(tx, adminID, notes, time.Now()); err != nil {
		return nil, err
	}

	cancelled, err := s.machine.CancelPending(tx.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		logger.CtxWarn(ctx, "rejected payment for subscription no longer pending",
			"subscription_id", tx.SubscriptionID, "transaction_id", tx.ID)
	}

	sub, err := s.repo.FindSubscriptionByID(tx.SubscriptionID)
	if err != nil {
		logger.CtxWarn(ctx, "failed to load subscription after rejection",
			"subscription_id", tx.SubscriptionID, "error", err)
	} else if s.notifier != nil {
		go s.notifier.VIPRejected(context.WithoutCancel(ctx), sub, tx, notes)
	}

	return tx, nil
}

// CancelSubscription - добровольная отмена активной подписки владельцем
// или админом. Без возврата средств и пропорциональных пересчетов.
func (s *Service) CancelSubscription(ctx context.Context, userID string, role models.UserRole, subscriptionID string, tier models.VIPTier) (*models.VIPSubscription, error) {
	sub, err := s.repo.FindSubscriptionByID(subscriptionID)
	if err != nil {
		if errors.Is(err, repositories.ErrVIPSubscriptionNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if tier != "" && sub.Tier != tier {
		return nil, apperrors.NewBadRequestError("Tier does not match the subscription")
	}

	if !s.access.CanCancel(userID, role, sub) {
		return nil, apperrors.NewForbiddenError("You can only cancel your own subscription")
	}

	if err := s.machine.Cancel(sub.ID); err != nil {
		return nil, err
	}
	sub.Status = models.VIPStatusCancelled

	s.invalidateBoosted(ctx, sub.Tier)

	if s.notifier != nil {
		go s.notifier.VIPCancelled(context.WithoutCancel(ctx), sub)
	}

	return sub, nil
}

// MySubscriptions возвращает все подписки пользователя, сгруппированные
// по типу размещения
func (s *Service) MySubscriptions(ctx context.Context, userID string) (*dto.MySubscriptionsResponse, error) {
	subs, err := s.repo.FindSubscriptionsByOwner(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.MySubscriptionsResponse{
		EmployeeProfile: []models.VIPSubscription{},
		Establishment:   []models.VIPSubscription{},
	}
	for _, sub := range subs {
		switch sub.Tier {
		case models.VIPTierEmployee:
			resp.EmployeeProfile = append(resp.EmployeeProfile, sub)
		case models.VIPTierEstablishment:
			resp.Establishment = append(resp.Establishment, sub)
		}
	}
	return resp, nil
}

// Pricing возвращает опубликованный прайс-лист для типа размещения
func (s *Service) Pricing(tier models.VIPTier) ([]dto.PricingOption, error) {
	return s.pricing.ListOptions(tier)
}

// ListTransactions - админский список платежей с фильтрами
func (s *Service) ListTransactions(ctx context.Context, role models.UserRole, criteria dto.TransactionListCriteria) ([]models.PaymentTransaction, error) {
	if !s.access.CanVerify(role) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	txs, err := s.repo.ListTransactions(
		models.PaymentMethod(criteria.PaymentMethod),
		models.PaymentStatus(criteria.Status),
	)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return txs, nil
}

// BoostedEntityIDs возвращает ID сущностей с действующим VIP,
// через redis-кеш с коротким TTL
func (s *Service) BoostedEntityIDs(ctx context.Context, tier models.VIPTier) ([]string, error) {
	if ids, ok := s.boosted.Get(ctx, tier); ok {
		return ids, nil
	}

	ids, err := s.repo.FindBoostedEntityIDs(tier, time.Now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.boosted.Set(ctx, tier, ids)
	return ids, nil
}

func (s *Service) invalidateBoosted(ctx context.Context, tier models.VIPTier) {
	s.boosted.Invalidate(ctx, tier)
}

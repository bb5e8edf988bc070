package services

import (
	"context"
	"encoding/json"
	"fmt"

	"relax_backend/internal/email"
	"relax_backend/internal/logger"
	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
	"relax_backend/pkg/apperrors"
)

// NotificationService создает уведомления и отдает их пользователю.
// VIP-методы вызываются fire-and-forget из сервиса подписок: любая
// ошибка здесь логируется и не влияет на результат исходной операции.
type NotificationService interface {
	ListForUser(userID string, onlyUnread bool, limit, offset int) ([]models.Notification, int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error

	VIPPurchased(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction)
	VIPActivated(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction)
	VIPRejected(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction, reason string)
	VIPCancelled(ctx context.Context, sub *models.VIPSubscription)
	VIPExpiring(ctx context.Context, sub *models.VIPSubscription)
}

type NotificationServiceImpl struct {
	repo  repositories.NotificationRepository
	users repositories.UserRepository
	mail  email.Sender
}

func NewNotificationService(repo repositories.NotificationRepository, users repositories.UserRepository, mail email.Sender) NotificationService {
	return &NotificationServiceImpl{repo: repo, users: users, mail: mail}
}

func (s *NotificationServiceImpl) ListForUser(userID string, onlyUnread bool, limit, offset int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	notifications, err := s.repo.FindByUser(userID, onlyUnread, limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	unread, err := s.repo.CountUnread(userID)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return notifications, unread, nil
}

func (s *NotificationServiceImpl) MarkAsRead(userID, notificationID string) error {
	err := s.repo.MarkAsRead(userID, notificationID)
	if err == repositories.ErrNotificationNotFound {
		return apperrors.ErrNotFound(err)
	}
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(userID string) error {
	if err := s.repo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// --- События жизненного цикла VIP ---

func (s *NotificationServiceImpl) VIPPurchased(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction) {
	s.create(ctx, sub.OwnerUserID, models.NotificationVIPPurchased,
		"VIP-размещение оформлено",
		fmt.Sprintf("Заявка на VIP-размещение на %d дн. создана и ожидает оплаты.", sub.DurationDays),
		subData(sub))
}

func (s *NotificationServiceImpl) VIPActivated(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction) {
	s.create(ctx, sub.OwnerUserID, models.NotificationVIPActivated,
		"VIP-размещение активировано",
		"Оплата подтверждена, VIP-размещение действует.",
		subData(sub))

	s.sendReceipt(ctx, sub, tx)
}

func (s *NotificationServiceImpl) VIPRejected(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction, reason string) {
	s.create(ctx, sub.OwnerUserID, models.NotificationVIPRejected,
		"Оплата отклонена",
		fmt.Sprintf("Оплата VIP-размещения отклонена: %s", reason),
		subData(sub))
}

func (s *NotificationServiceImpl) VIPCancelled(ctx context.Context, sub *models.VIPSubscription) {
	s.create(ctx, sub.OwnerUserID, models.NotificationVIPCancelled,
		"VIP-размещение отменено",
		"VIP-размещение отменено и больше не действует.",
		subData(sub))
}

func (s *NotificationServiceImpl) VIPExpiring(ctx context.Context, sub *models.VIPSubscription) {
	s.create(ctx, sub.OwnerUserID, models.NotificationVIPExpiring,
		"VIP-размещение скоро истекает",
		"Срок VIP-размещения скоро закончится. Продлите его, чтобы остаться в топе.",
		subData(sub))
}

func (s *NotificationServiceImpl) create(ctx context.Context, userID, typ, title, message string, data map[string]any) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.CtxWarn(ctx, "failed to marshal notification data", "type", typ, "error", err)
		raw = []byte("{}")
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    raw,
	}
	if err := s.repo.Create(n); err != nil {
		logger.CtxWarn(ctx, "failed to create notification",
			"user_id", userID, "type", typ, "error", err)
	}
}

// sendReceipt отправляет письмо-квитанцию после активации. Best-effort.
func (s *NotificationServiceImpl) sendReceipt(ctx context.Context, sub *models.VIPSubscription, tx *models.PaymentTransaction) {
	if s.mail == nil || tx == nil {
		return
	}
	user, err := s.users.FindByID(sub.OwnerUserID)
	if err != nil {
		logger.CtxWarn(ctx, "failed to load user for receipt email",
			"user_id", sub.OwnerUserID, "error", err)
		return
	}

	body := fmt.Sprintf(
		"<p>Оплата получена: %.0f %s.</p><p>VIP-размещение действует %d дн.</p><p>Номер транзакции: %s</p>",
		tx.Amount, tx.Currency, sub.DurationDays, tx.ID,
	)
	if err := s.mail.Send(user.Email, "Квитанция об оплате VIP-размещения", body); err != nil {
		logger.CtxWarn(ctx, "failed to send receipt email",
			"user_id", user.ID, "transaction_id", tx.ID, "error", err)
	}
}

func subData(sub *models.VIPSubscription) map[string]any {
	return map[string]any{
		"subscription_id": sub.ID,
		"tier":            string(sub.Tier),
		"entity_id":       sub.EntityID,
	}
}

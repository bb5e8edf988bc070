package repositories

import (
	"errors"
	"time"

	"relax_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVIPSubscriptionNotFound = errors.New("vip subscription not found")
	ErrTransactionNotFound     = errors.New("payment transaction not found")
)

// VIPRepository - хранилище VIP-подписок и платежных транзакций.
//
// Все переходы статусов выполнены условными UPDATE'ами с проверкой
// RowsAffected: второй конкурентный вызов не находит строку в исходном
// статусе и получает ok=false, а не повторную мутацию.
type VIPRepository interface {
	// Subscriptions
	CreateSubscription(sub *models.VIPSubscription) error
	FindSubscriptionByID(id string) (*models.VIPSubscription, error)
	FindCurrentSubscription(entityID string, tier models.VIPTier) (*models.VIPSubscription, error)
	FindSubscriptionsByOwner(ownerID string) ([]models.VIPSubscription, error)
	DeleteSubscription(id string) error
	LinkTransaction(subscriptionID, transactionID string) error
	ActivateSubscription(id string, startsAt, expiresAt time.Time) (bool, error)
	CancelSubscription(id string, fromStatus models.VIPStatus) (bool, error)
	FindBoostedEntityIDs(tier models.VIPTier, now time.Time) ([]string, error)
	FindExpiringSubscriptions(now time.Time, within time.Duration) ([]models.VIPSubscription, error)

	// Transactions
	CreateTransaction(tx *models.PaymentTransaction) error
	FindTransactionByID(id string) (*models.PaymentTransaction, error)
	MarkTransactionVerified(id, adminID, notes string, at time.Time) (bool, error)
	MarkTransactionRejected(id, adminID, notes string, at time.Time) (bool, error)
	ListTransactions(method models.PaymentMethod, status models.PaymentStatus) ([]models.PaymentTransaction, error)
}

type VIPRepositoryImpl struct {
	db *gorm.DB
}

func NewVIPRepository(db *gorm.DB) VIPRepository {
	return &VIPRepositoryImpl{db: db}
}

// Subscriptions

func (r *VIPRepositoryImpl) CreateSubscription(sub *models.VIPSubscription) error {
	return r.db.Create(sub).Error
}

func (r *VIPRepositoryImpl) FindSubscriptionByID(id string) (*models.VIPSubscription, error) {
	var sub models.VIPSubscription
	err := r.db.First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVIPSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindCurrentSubscription ищет подписку в нетерминальном статусе
// (pending_payment или active) для пары (entity, tier)
func (r *VIPRepositoryImpl) FindCurrentSubscription(entityID string, tier models.VIPTier) (*models.VIPSubscription, error) {
	var sub models.VIPSubscription
	err := r.db.
		Where("entity_id = ? AND tier = ? AND status IN ?", entityID, tier,
			[]models.VIPStatus{models.VIPStatusPendingPayment, models.VIPStatusActive}).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVIPSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *VIPRepositoryImpl) FindSubscriptionsByOwner(ownerID string) ([]models.VIPSubscription, error) {
	var subs []models.VIPSubscription
	err := r.db.Where("owner_user_id = ?", ownerID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// DeleteSubscription удаляет строку подписки. Используется только
// компенсацией при неудачном создании транзакции.
func (r *VIPRepositoryImpl) DeleteSubscription(id string) error {
	return r.db.Delete(&models.VIPSubscription{}, "id = ?", id).Error
}

// LinkTransaction - второй шаг двухшаговой связки: проставляет
// обратную ссылку на транзакцию
func (r *VIPRepositoryImpl) LinkTransaction(subscriptionID, transactionID string) error {
	return r.db.Model(&models.VIPSubscription{}).
		Where("id = ?", subscriptionID).
		Update("transaction_id", transactionID).Error
}

// ActivateSubscription переводит pending_payment -> active и ставит сроки.
// Возвращает false, если подписка уже не в pending_payment.
func (r *VIPRepositoryImpl) ActivateSubscription(id string, startsAt, expiresAt time.Time) (bool, error) {
	result := r.db.Model(&models.VIPSubscription{}).
		Where("id = ? AND status = ?", id, models.VIPStatusPendingPayment).
		Updates(map[string]interface{}{
			"status":     models.VIPStatusActive,
			"starts_at":  startsAt,
			"expires_at": expiresAt,
		})
	return result.RowsAffected > 0, result.Error
}

// CancelSubscription переводит подписку из fromStatus в cancelled.
// fromStatus=active - пользовательская отмена, fromStatus=pending_payment -
// отмена при отклонении платежа.
func (r *VIPRepositoryImpl) CancelSubscription(id string, fromStatus models.VIPStatus) (bool, error) {
	result := r.db.Model(&models.VIPSubscription{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", models.VIPStatusCancelled)
	return result.RowsAffected > 0, result.Error
}

// FindBoostedEntityIDs возвращает ID сущностей с действующим VIP.
// Ленивое истечение: фильтр по expires_at обязателен, статуса мало.
func (r *VIPRepositoryImpl) FindBoostedEntityIDs(tier models.VIPTier, now time.Time) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.VIPSubscription{}).
		Where("tier = ? AND status = ? AND expires_at > ?", tier, models.VIPStatusActive, now).
		Pluck("entity_id", &ids).Error
	return ids, err
}

func (r *VIPRepositoryImpl) FindExpiringSubscriptions(now time.Time, within time.Duration) ([]models.VIPSubscription, error) {
	var subs []models.VIPSubscription
	err := r.db.
		Where("status = ? AND expires_at > ? AND expires_at <= ?",
			models.VIPStatusActive, now, now.Add(within)).
		Find(&subs).Error
	return subs, err
}

// Transactions

func (r *VIPRepositoryImpl) CreateTransaction(tx *models.PaymentTransaction) error {
	return r.db.Create(tx).Error
}

func (r *VIPRepositoryImpl) FindTransactionByID(id string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := r.db.First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// MarkTransactionVerified - единственный переход pending -> completed.
// false означает, что транзакция уже обработана.
func (r *VIPRepositoryImpl) MarkTransactionVerified(id, adminID, notes string, at time.Time) (bool, error) {
	result := r.db.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusCompleted,
			"admin_notes": notes,
			"verified_by": adminID,
			"verified_at": at,
		})
	return result.RowsAffected > 0, result.Error
}

// MarkTransactionRejected - единственный переход pending -> failed
func (r *VIPRepositoryImpl) MarkTransactionRejected(id, adminID, notes string, at time.Time) (bool, error) {
	result := r.db.Model(&models.PaymentTransaction{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      models.PaymentStatusFailed,
			"admin_notes": notes,
			"verified_by": adminID,
			"verified_at": at,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *VIPRepositoryImpl) ListTransactions(method models.PaymentMethod, status models.PaymentStatus) ([]models.PaymentTransaction, error) {
	var txs []models.PaymentTransaction
	query := r.db.Model(&models.PaymentTransaction{})
	if method != "" {
		query = query.Where("method = ?", method)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&txs).Error
	return txs, err
}

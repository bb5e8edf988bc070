package vip

import (
	"time"

	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
	"relax_backend/internal/services/qr"
	"relax_backend/pkg/apperrors"
)

// Ledger создает платежные транзакции и выполняет их единственный
// переход pending -> completed/failed.
type Ledger struct {
	repo repositories.VIPRepository
	qr   qr.Generator
}

func NewLedger(repo repositories.VIPRepository, qrGen qr.Generator) *Ledger {
	return &Ledger{repo: repo, qr: qrGen}
}

// Create создает pending-транзакцию для подписки. Для qr_transfer
// QR-данные генерируются ДО записи в БД: если платежный канал не
// сконфигурирован, ни одной строки транзакции не появляется.
func (l *Ledger) Create(subscriptionID string, amount float64, currency string, method models.PaymentMethod) (*models.PaymentTransaction, error) {
	tx := &models.PaymentTransaction{
		SubscriptionID: subscriptionID,
		Amount:         amount,
		Currency:       currency,
		Method:         method,
		Status:         models.PaymentStatusPending,
	}

	if method == models.PaymentMethodQRTransfer {
		if l.qr == nil || !l.qr.Configured() {
			return nil, apperrors.ErrPaymentMethodUnavailable
		}
		payload, err := l.qr.Generate(amount, currency)
		if err != nil {
			return nil, apperrors.ErrTransactionCreationFailed(err)
		}
		tx.QRCode = payload.QRCode
		tx.QRReference = payload.Reference
	}

	if err := l.repo.CreateTransaction(tx); err != nil {
		return nil, apperrors.ErrTransactionCreationFailed(err)
	}
	return tx, nil
}

// MarkVerified подтверждает cash-транзакцию. Ручное подтверждение
// qr_transfer не поддерживается: такие платежи сверяются по выписке.
func (l *Ledger) MarkVerified(tx *models.PaymentTransaction, adminID, notes string, at time.Time) error {
	if tx.Method != models.PaymentMethodCash {
		return apperrors.ErrInvalidPaymentMethod
	}

	ok, err := l.repo.MarkTransactionVerified(tx.ID, adminID, notes, at)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrAlreadyProcessed
	}
	return nil
}

// MarkRejected отклоняет транзакцию любого способа оплаты.
// Причина отклонения обязательна.
func (l *Ledger) MarkRejected(tx *models.PaymentTransaction, adminID, notes string, at time.Time) error {
	if notes == "" {
		return apperrors.NewBadRequestError("Rejection reason is required")
	}

	ok, err := l.repo.MarkTransactionRejected(tx.ID, adminID, notes, at)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrAlreadyProcessed
	}
	return nil
}

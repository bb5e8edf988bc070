package vip

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"relax_backend/internal/dto"
	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
	"relax_backend/internal/services/qr"
	"relax_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Фейки ---

type fakeVIPRepo struct {
	mu sync.Mutex

	subs map[string]*models.VIPSubscription
	txs  map[string]*models.PaymentTransaction

	createSubErr error
	createTxErr  error
	deleteCalls  int
}

func newFakeVIPRepo() *fakeVIPRepo {
	return &fakeVIPRepo{
		subs: make(map[string]*models.VIPSubscription),
		txs:  make(map[string]*models.PaymentTransaction),
	}
}

func (r *fakeVIPRepo) CreateSubscription(sub *models.VIPSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createSubErr != nil {
		return r.createSubErr
	}
	sub.ID = uuid.NewString()
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *fakeVIPRepo) FindSubscriptionByID(id string) (*models.VIPSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok {
		return nil, repositories.ErrVIPSubscriptionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeVIPRepo) FindCurrentSubscription(entityID string, tier models.VIPTier) (*models.VIPSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.EntityID == entityID && sub.Tier == tier &&
			(sub.Status == models.VIPStatusPendingPayment || sub.Status == models.VIPStatusActive) {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, repositories.ErrVIPSubscriptionNotFound
}

func (r *fakeVIPRepo) FindSubscriptionsByOwner(ownerID string) ([]models.VIPSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.VIPSubscription
	for _, sub := range r.subs {
		if sub.OwnerUserID == ownerID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *fakeVIPRepo) DeleteSubscription(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	delete(r.subs, id)
	return nil
}

func (r *fakeVIPRepo) LinkTransaction(subscriptionID, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[subscriptionID]
	if !ok {
		return repositories.ErrVIPSubscriptionNotFound
	}
	sub.TransactionID = &transactionID
	return nil
}

func (r *fakeVIPRepo) ActivateSubscription(id string, startsAt, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok || sub.Status != models.VIPStatusPendingPayment {
		return false, nil
	}
	sub.Status = models.VIPStatusActive
	sub.StartsAt = &startsAt
	sub.ExpiresAt = &expiresAt
	return true, nil
}

func (r *fakeVIPRepo) CancelSubscription(id string, fromStatus models.VIPStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[id]
	if !ok || sub.Status != fromStatus {
		return false, nil
	}
	sub.Status = models.VIPStatusCancelled
	return true, nil
}

func (r *fakeVIPRepo) FindBoostedEntityIDs(tier models.VIPTier, now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, sub := range r.subs {
		if sub.Tier == tier && sub.IsBoosted(now) {
			ids = append(ids, sub.EntityID)
		}
	}
	return ids, nil
}

func (r *fakeVIPRepo) FindExpiringSubscriptions(now time.Time, within time.Duration) ([]models.VIPSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.VIPSubscription
	for _, sub := range r.subs {
		if sub.Status == models.VIPStatusActive && sub.ExpiresAt != nil &&
			sub.ExpiresAt.After(now) && !sub.ExpiresAt.After(now.Add(within)) {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *fakeVIPRepo) CreateTransaction(tx *models.PaymentTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createTxErr != nil {
		return r.createTxErr
	}
	tx.ID = uuid.NewString()
	cp := *tx
	r.txs[tx.ID] = &cp
	return nil
}

func (r *fakeVIPRepo) FindTransactionByID(id string) (*models.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeVIPRepo) MarkTransactionVerified(id, adminID, notes string, at time.Time) (bool, error) {
	return r.markProcessed(id, adminID, notes, at, models.PaymentStatusCompleted)
}

func (r *fakeVIPRepo) MarkTransactionRejected(id, adminID, notes string, at time.Time) (bool, error) {
	return r.markProcessed(id, adminID, notes, at, models.PaymentStatusFailed)
}

func (r *fakeVIPRepo) markProcessed(id, adminID, notes string, at time.Time, to models.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok || tx.Status != models.PaymentStatusPending {
		return false, nil
	}
	tx.Status = to
	tx.AdminNotes = notes
	tx.VerifiedBy = &adminID
	tx.VerifiedAt = &at
	return true, nil
}

func (r *fakeVIPRepo) ListTransactions(method models.PaymentMethod, status models.PaymentStatus) ([]models.PaymentTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentTransaction
	for _, tx := range r.txs {
		if method != "" && tx.Method != method {
			continue
		}
		if status != "" && tx.Status != status {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

type fakeDirectoryRepo struct {
	repositories.DirectoryRepository

	linkedUser   bool
	managesEst   bool
	managesEmpl  bool
	lookupFailed bool
}

func (r *fakeDirectoryRepo) IsEmployeeLinkedUser(userID, employeeID string) (bool, error) {
	if r.lookupFailed {
		return false, errors.New("db down")
	}
	return r.linkedUser, nil
}

func (r *fakeDirectoryRepo) HasEstablishmentRole(userID, establishmentID string) (bool, error) {
	if r.lookupFailed {
		return false, errors.New("db down")
	}
	return r.managesEst, nil
}

func (r *fakeDirectoryRepo) ManagesEmployerOf(userID, employeeID string) (bool, error) {
	if r.lookupFailed {
		return false, errors.New("db down")
	}
	return r.managesEmpl, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	purchased int
	activated int
	rejected  int
	cancelled int
}

func (n *fakeNotifier) VIPPurchased(context.Context, *models.VIPSubscription, *models.PaymentTransaction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.purchased++
}

func (n *fakeNotifier) VIPActivated(context.Context, *models.VIPSubscription, *models.PaymentTransaction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activated++
}

func (n *fakeNotifier) VIPRejected(context.Context, *models.VIPSubscription, *models.PaymentTransaction, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rejected++
}

func (n *fakeNotifier) VIPCancelled(context.Context, *models.VIPSubscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled++
}

func (n *fakeNotifier) counts() (int, int, int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.purchased, n.activated, n.rejected, n.cancelled
}

type fakeQRGenerator struct {
	configured bool
	failGen    bool
}

func (g *fakeQRGenerator) Configured() bool { return g.configured }

func (g *fakeQRGenerator) Generate(amount float64, currency string) (*qr.Payload, error) {
	if g.failGen {
		return nil, errors.New("qr backend down")
	}
	return &qr.Payload{QRCode: "data:image/png;base64,stub", Reference: uuid.NewString()}, nil
}

// --- Конструктор тестового сервиса ---

type testEnv struct {
	repo      *fakeVIPRepo
	directory *fakeDirectoryRepo
	notifier  *fakeNotifier
	qrGen     *fakeQRGenerator
	svc       *Service
}

func newTestEnv() *testEnv {
	repo := newFakeVIPRepo()
	directory := &fakeDirectoryRepo{linkedUser: true, managesEst: true}
	notifier := &fakeNotifier{}
	qrGen := &fakeQRGenerator{configured: true}

	svc := NewService(
		repo,
		NewPricing("KZT"),
		NewAccess(directory),
		NewLedger(repo, qrGen),
		NewStateMachine(repo),
		notifier,
		nil,
	)
	return &testEnv{repo: repo, directory: directory, notifier: notifier, qrGen: qrGen, svc: svc}
}

func purchaseReq(entityID string) dto.PurchaseVIPRequest {
	return dto.PurchaseVIPRequest{
		Tier:          string(models.VIPTierEmployee),
		EntityID:      entityID,
		DurationDays:  30,
		PaymentMethod: string(models.PaymentMethodCash),
	}
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected *apperrors.AppError, got %v", err)
	return appErr.Code
}

// --- Покупка ---

func TestPurchaseCashCreatesPendingPair(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	sub := resp.Subscription
	assert.Equal(t, models.VIPStatusPendingPayment, sub.Status)
	assert.Equal(t, 30, sub.DurationDays)
	assert.Equal(t, 10000.0, sub.PricePaid)
	assert.Equal(t, "KZT", sub.Currency)
	assert.Nil(t, sub.StartsAt)
	assert.Nil(t, sub.ExpiresAt)

	tx := resp.Transaction
	assert.Equal(t, models.PaymentStatusPending, tx.Status)
	assert.Equal(t, sub.ID, tx.SubscriptionID)
	assert.Equal(t, sub.PricePaid, tx.Amount)
	assert.Empty(t, tx.QRCode)

	require.NotNil(t, sub.TransactionID)
	assert.Equal(t, tx.ID, *sub.TransactionID)
}

func TestPurchaseQRCarriesPayload(t *testing.T) {
	env := newTestEnv()
	req := purchaseReq(uuid.NewString())
	req.PaymentMethod = string(models.PaymentMethodQRTransfer)

	resp, err := env.svc.Purchase(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Transaction.QRCode)
	assert.NotEmpty(t, resp.Transaction.QRReference)
}

func TestPurchaseQRUnavailableWithoutConfig(t *testing.T) {
	env := newTestEnv()
	env.qrGen.configured = false

	req := purchaseReq(uuid.NewString())
	req.PaymentMethod = string(models.PaymentMethodQRTransfer)

	_, err := env.svc.Purchase(context.Background(), "user-1", req)
	assert.Equal(t, apperrors.CodePaymentMethodUnavail, appCode(t, err))

	// Ни подписки, ни транзакции не остается
	assert.Empty(t, env.repo.subs)
	assert.Empty(t, env.repo.txs)
}

func TestPurchaseQRGenerationFailureCompensates(t *testing.T) {
	env := newTestEnv()
	env.qrGen.failGen = true

	req := purchaseReq(uuid.NewString())
	req.PaymentMethod = string(models.PaymentMethodQRTransfer)

	_, err := env.svc.Purchase(context.Background(), "user-1", req)
	assert.Equal(t, apperrors.CodeTransactionCreateFailed, appCode(t, err))
	assert.Empty(t, env.repo.subs)
	assert.Empty(t, env.repo.txs)
}

func TestPurchaseUnknownDuration(t *testing.T) {
	env := newTestEnv()
	req := purchaseReq(uuid.NewString())
	req.DurationDays = 45

	_, err := env.svc.Purchase(context.Background(), "user-1", req)
	assert.Equal(t, apperrors.CodeValidationFailed, appCode(t, err))
	assert.Empty(t, env.repo.subs)
}

func TestPurchaseForbiddenForStranger(t *testing.T) {
	env := newTestEnv()
	env.directory.linkedUser = false
	env.directory.managesEmpl = false

	_, err := env.svc.Purchase(context.Background(), "stranger", purchaseReq(uuid.NewString()))
	assert.Equal(t, apperrors.CodeForbidden, appCode(t, err))
}

func TestPurchaseDeniedWhenLookupFails(t *testing.T) {
	env := newTestEnv()
	env.directory.lookupFailed = true

	_, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	assert.Equal(t, apperrors.CodeForbidden, appCode(t, err))
}

func TestPurchaseConflictWithExisting(t *testing.T) {
	env := newTestEnv()
	entityID := uuid.NewString()

	_, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(entityID))
	require.NoError(t, err)

	_, err = env.svc.Purchase(context.Background(), "user-1", purchaseReq(entityID))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)

	details, ok := appErr.Details.(dto.ExistingVIPDetails)
	require.True(t, ok, "conflict details must describe the existing subscription")
	assert.Equal(t, string(models.VIPStatusPendingPayment), details.Status)
}

func TestPurchaseStoreFailureIsNotConflict(t *testing.T) {
	env := newTestEnv()
	env.repo.createSubErr = errors.New("connection refused")

	_, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInternalError, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
}

func TestPurchaseDuplicateKeyMapsToConflict(t *testing.T) {
	env := newTestEnv()
	env.repo.createSubErr = gorm.ErrDuplicatedKey

	_, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestPurchaseSameEntityDifferentTierAllowed(t *testing.T) {
	env := newTestEnv()
	entityID := uuid.NewString()

	_, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(entityID))
	require.NoError(t, err)

	req := purchaseReq(entityID)
	req.Tier = string(models.VIPTierEstablishment)
	req.DurationDays = 7
	_, err = env.svc.Purchase(context.Background(), "user-1", req)
	require.NoError(t, err)
}

func TestPurchaseCompensatesOnTransactionFailure(t *testing.T) {
	env := newTestEnv()
	env.repo.createTxErr = errors.New("insert failed")

	_, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	assert.Equal(t, apperrors.CodeTransactionCreateFailed, appCode(t, err))

	// Компенсация удалила pending-подписку, повторная покупка возможна
	assert.Equal(t, 1, env.repo.deleteCalls)
	assert.Empty(t, env.repo.subs)

	env.repo.createTxErr = nil
	_, err = env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	assert.NoError(t, err)
}

func TestPurchaseConcurrentSingleWinner(t *testing.T) {
	env := newTestEnv()
	entityID := uuid.NewString()

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(entityID))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeConflict, appErr.Code)
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, env.repo.subs, 1)
	assert.Len(t, env.repo.txs, 1)
}

// --- Подтверждение оплаты ---

func TestVerifyActivatesSubscription(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	before := time.Now()
	sub, err := env.svc.VerifyPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "получено наличными")
	require.NoError(t, err)

	assert.Equal(t, models.VIPStatusActive, sub.Status)
	require.NotNil(t, sub.StartsAt)
	require.NotNil(t, sub.ExpiresAt)
	assert.WithinDuration(t, before.AddDate(0, 0, 30), *sub.ExpiresAt, 5*time.Second)
	assert.True(t, sub.IsBoosted(time.Now()))

	stored, err := env.repo.FindTransactionByID(resp.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, stored.Status)
	require.NotNil(t, stored.VerifiedBy)
	assert.Equal(t, "admin-1", *stored.VerifiedBy)
	assert.Equal(t, "получено наличными", stored.AdminNotes)
}

func TestVerifyTwiceReturnsAlreadyProcessed(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	_, err = env.svc.VerifyPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "")
	require.NoError(t, err)

	_, err = env.svc.VerifyPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "")
	assert.Equal(t, apperrors.CodeAlreadyProcessed, appCode(t, err))
}

func TestVerifyQRTransferNotSupported(t *testing.T) {
	env := newTestEnv()
	req := purchaseReq(uuid.NewString())
	req.PaymentMethod = string(models.PaymentMethodQRTransfer)
	resp, err := env.svc.Purchase(context.Background(), "user-1", req)
	require.NoError(t, err)

	_, err = env.svc.VerifyPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "")
	assert.Equal(t, apperrors.CodeInvalidPaymentMethod, appCode(t, err))

	// Транзакция осталась pending, подписка не активировалась
	stored, _ := env.repo.FindTransactionByID(resp.Transaction.ID)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
	sub, _ := env.repo.FindSubscriptionByID(resp.Subscription.ID)
	assert.Equal(t, models.VIPStatusPendingPayment, sub.Status)
}

func TestVerifyRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	_, err = env.svc.VerifyPayment(context.Background(), "user-1", models.UserRoleUser, resp.Transaction.ID, "")
	assert.Equal(t, apperrors.CodeForbidden, appCode(t, err))
}

func TestVerifyUnknownTransaction(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.VerifyPayment(context.Background(), "admin-1", models.UserRoleAdmin, uuid.NewString(), "")
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))
}

// --- Отклонение оплаты ---

func TestRejectCancelsPendingSubscription(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	tx, err := env.svc.RejectPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "деньги не поступили")
	require.NoError(t, err)
	_ = tx

	stored, _ := env.repo.FindTransactionByID(resp.Transaction.ID)
	assert.Equal(t, models.PaymentStatusFailed, stored.Status)
	assert.Equal(t, "деньги не поступили", stored.AdminNotes)

	sub, _ := env.repo.FindSubscriptionByID(resp.Subscription.ID)
	assert.Equal(t, models.VIPStatusCancelled, sub.Status)
}

func TestRejectWorksForQRTransfer(t *testing.T) {
	env := newTestEnv()
	req := purchaseReq(uuid.NewString())
	req.PaymentMethod = string(models.PaymentMethodQRTransfer)
	resp, err := env.svc.Purchase(context.Background(), "user-1", req)
	require.NoError(t, err)

	_, err = env.svc.RejectPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "сумма не совпала")
	assert.NoError(t, err)
}

func TestRejectRequiresReason(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	_, err = env.svc.RejectPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "")
	assert.Equal(t, apperrors.CodeValidationFailed, appCode(t, err))

	stored, _ := env.repo.FindTransactionByID(resp.Transaction.ID)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestRejectTwiceReturnsAlreadyProcessed(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	_, err = env.svc.RejectPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "причина")
	require.NoError(t, err)

	_, err = env.svc.RejectPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "причина")
	assert.Equal(t, apperrors.CodeAlreadyProcessed, appCode(t, err))
}

func TestRejectAfterVerifyReturnsAlreadyProcessed(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	_, err = env.svc.VerifyPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "")
	require.NoError(t, err)

	_, err = env.svc.RejectPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "поздно")
	assert.Equal(t, apperrors.CodeAlreadyProcessed, appCode(t, err))

	// Активированная подписка не пострадала
	sub, _ := env.repo.FindSubscriptionByID(resp.Subscription.ID)
	assert.Equal(t, models.VIPStatusActive, sub.Status)
}

// --- Отмена ---

func activateSub(t *testing.T, env *testEnv, ownerID string) *models.VIPSubscription {
	t.Helper()
	resp, err := env.svc.Purchase(context.Background(), ownerID, purchaseReq(uuid.NewString()))
	require.NoError(t, err)
	sub, err := env.svc.VerifyPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "")
	require.NoError(t, err)
	return sub
}

func TestCancelActiveByOwner(t *testing.T) {
	env := newTestEnv()
	sub := activateSub(t, env, "user-1")

	cancelled, err := env.svc.CancelSubscription(context.Background(), "user-1", models.UserRoleUser, sub.ID, sub.Tier)
	require.NoError(t, err)
	assert.Equal(t, models.VIPStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.IsBoosted(time.Now()))
}

func TestCancelByAdmin(t *testing.T) {
	env := newTestEnv()
	sub := activateSub(t, env, "user-1")

	_, err := env.svc.CancelSubscription(context.Background(), "admin-1", models.UserRoleAdmin, sub.ID, sub.Tier)
	assert.NoError(t, err)
}

func TestCancelForeignSubscriptionForbidden(t *testing.T) {
	env := newTestEnv()
	sub := activateSub(t, env, "user-1")

	_, err := env.svc.CancelSubscription(context.Background(), "user-2", models.UserRoleUser, sub.ID, sub.Tier)
	assert.Equal(t, apperrors.CodeForbidden, appCode(t, err))
}

func TestCancelPendingNotAllowed(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	_, err = env.svc.CancelSubscription(context.Background(), "user-1", models.UserRoleUser, resp.Subscription.ID, resp.Subscription.Tier)
	assert.Equal(t, apperrors.CodeInvalidStatus, appCode(t, err))
}

func TestCancelTwiceFails(t *testing.T) {
	env := newTestEnv()
	sub := activateSub(t, env, "user-1")

	_, err := env.svc.CancelSubscription(context.Background(), "user-1", models.UserRoleUser, sub.ID, sub.Tier)
	require.NoError(t, err)

	_, err = env.svc.CancelSubscription(context.Background(), "user-1", models.UserRoleUser, sub.ID, sub.Tier)
	assert.Equal(t, apperrors.CodeInvalidStatus, appCode(t, err))
}

func TestCancelTierMismatch(t *testing.T) {
	env := newTestEnv()
	sub := activateSub(t, env, "user-1")

	_, err := env.svc.CancelSubscription(context.Background(), "user-1", models.UserRoleUser, sub.ID, models.VIPTierEstablishment)
	assert.Equal(t, apperrors.CodeValidationFailed, appCode(t, err))
}

func TestCancelUnknownSubscription(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.CancelSubscription(context.Background(), "user-1", models.UserRoleUser, uuid.NewString(), models.VIPTierEmployee)
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))
}

// --- Списки и уведомления ---

func TestMySubscriptionsGroupedByTier(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)

	estReq := purchaseReq(uuid.NewString())
	estReq.Tier = string(models.VIPTierEstablishment)
	_, err = env.svc.Purchase(context.Background(), "user-1", estReq)
	require.NoError(t, err)

	resp, err := env.svc.MySubscriptions(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, resp.EmployeeProfile, 1)
	assert.Len(t, resp.Establishment, 1)

	other, err := env.svc.MySubscriptions(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, other.EmployeeProfile)
	assert.Empty(t, other.Establishment)
}

func TestListTransactionsFiltersAndRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	resp, err := env.svc.Purchase(context.Background(), "user-1", purchaseReq(uuid.NewString()))
	require.NoError(t, err)
	_, err = env.svc.VerifyPayment(context.Background(), "admin-1", models.UserRoleAdmin, resp.Transaction.ID, "")
	require.NoError(t, err)

	_, err = env.svc.ListTransactions(context.Background(), models.UserRoleUser, dto.TransactionListCriteria{})
	assert.Equal(t, apperrors.CodeForbidden, appCode(t, err))

	completed, err := env.svc.ListTransactions(context.Background(), models.UserRoleAdmin, dto.TransactionListCriteria{Status: "completed"})
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	pending, err := env.svc.ListTransactions(context.Background(), models.UserRoleAdmin, dto.TransactionListCriteria{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestLifecycleFiresNotifications(t *testing.T) {
	env := newTestEnv()
	sub := activateSub(t, env, "user-1")

	_, err := env.svc.CancelSubscription(context.Background(), "user-1", models.UserRoleUser, sub.ID, sub.Tier)
	require.NoError(t, err)

	// Уведомления уходят в горутинах, ждем их доставку
	assert.Eventually(t, func() bool {
		purchased, activated, _, cancelled := env.notifier.counts()
		return purchased == 1 && activated == 1 && cancelled == 1
	}, time.Second, 10*time.Millisecond)
}

func TestBoostedEntityIDsLazyExpiry(t *testing.T) {
	env := newTestEnv()
	sub := activateSub(t, env, "user-1")

	ids, err := env.svc.BoostedEntityIDs(context.Background(), models.VIPTierEmployee)
	require.NoError(t, err)
	assert.Equal(t, []string{sub.EntityID}, ids)

	// Срок вышел: статус в БД остается active, но из выборки подписка уходит
	env.repo.mu.Lock()
	expired := time.Now().Add(-time.Minute)
	env.repo.subs[sub.ID].ExpiresAt = &expired
	env.repo.mu.Unlock()

	ids, err = env.svc.BoostedEntityIDs(context.Background(), models.VIPTierEmployee)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

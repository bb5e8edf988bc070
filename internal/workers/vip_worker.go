package workers

import (
	"context"
	"time"

	"relax_backend/internal/logger"
	"relax_backend/internal/models"
	"relax_backend/internal/repositories"
)

// ExpiryNotifier получает событие "подписка скоро истекает"
type ExpiryNotifier interface {
	VIPExpiring(ctx context.Context, sub *models.VIPSubscription)
}

// VIPWorker - фоновая рассылка предупреждений об истекающих подписках.
// Статусы не трогает: истечение ленивое, его определяет каждый читающий
// по expires_at. Воркер только уведомляет владельцев заранее.
type VIPWorker struct {
	repo     repositories.VIPRepository
	notifier ExpiryNotifier

	interval time.Duration
	window   time.Duration

	// ID подписок, по которым предупреждение уже отправлено,
	// чтобы не слать его на каждом тике
	notified map[string]struct{}
}

func NewVIPWorker(repo repositories.VIPRepository, notifier ExpiryNotifier) *VIPWorker {
	return &VIPWorker{
		repo:     repo,
		notifier: notifier,
		interval: 6 * time.Hour,
		window:   48 * time.Hour,
		notified: make(map[string]struct{}),
	}
}

// Start запускает цикл воркера; блокируется до отмены ctx
func (w *VIPWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("vip worker started", "interval", w.interval.String(), "window", w.window.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("vip worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *VIPWorker) sweep(ctx context.Context) {
	now := time.Now()

	subs, err := w.repo.FindExpiringSubscriptions(now, w.window)
	if err != nil {
		logger.CtxError(ctx, "vip worker: failed to load expiring subscriptions", "error", err)
		return
	}

	sent := 0
	for i := range subs {
		sub := subs[i]
		if _, ok := w.notified[sub.ID]; ok {
			continue
		}
		w.notifier.VIPExpiring(ctx, &sub)
		w.notified[sub.ID] = struct{}{}
		sent++
	}

	// Истекшие записи больше не вернутся из выборки, чистим память
	for id := range w.notified {
		if !contains(subs, id) {
			delete(w.notified, id)
		}
	}

	if sent > 0 {
		logger.Info("vip worker: expiry warnings sent", "count", sent)
	}
}

func contains(subs []models.VIPSubscription, id string) bool {
	for i := range subs {
		if subs[i].ID == id {
			return true
		}
	}
	return false
}

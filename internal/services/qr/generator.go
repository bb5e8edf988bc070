package qr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotConfigured - QR-канал не настроен (нет merchant ID)
var ErrNotConfigured = errors.New("qr payment rail is not configured")

// Payload - сгенерированные данные для оплаты по QR
type Payload struct {
	QRCode    string // содержимое QR: платежная ссылка
	Reference string // референс для сверки поступления
}

// Generator - внешний коллаборатор генерации QR-кодов.
// Сервис VIP-жизненного цикла зависит только от интерфейса.
type Generator interface {
	// Configured сообщает, настроен ли QR-канал
	Configured() bool
	// Generate создает QR-данные для платежа
	Generate(amount float64, currency string) (*Payload, error)
}

// Config - настройки QR-канала; передаются при создании,
// а не читаются из глобального состояния процесса
type Config struct {
	MerchantID string
	ServiceURL string
}

// PaymentGenerator - реализация поверх платежного QR-сервиса банка
type PaymentGenerator struct {
	cfg Config
}

func NewPaymentGenerator(cfg Config) *PaymentGenerator {
	return &PaymentGenerator{cfg: cfg}
}

func (g *PaymentGenerator) Configured() bool {
	return g.cfg.MerchantID != ""
}

func (g *PaymentGenerator) Generate(amount float64, currency string) (*Payload, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	serviceURL := g.cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = "https://pay.example.kz/qr"
	}

	reference := uuid.NewString()
	return &Payload{
		QRCode: fmt.Sprintf("%s?merchant=%s&amount=%.2f&currency=%s&ref=%s",
			serviceURL, g.cfg.MerchantID, amount, currency, reference),
		Reference: reference,
	}, nil
}

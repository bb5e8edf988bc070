package vip

import (
	"sort"

	"relax_backend/internal/dto"
	"relax_backend/internal/models"
	"relax_backend/pkg/apperrors"
)

// Price - разрешенная цена VIP-размещения
type Price struct {
	Amount   float64
	Currency string
}

// Pricing - чистый разрешитель цен: (tier, duration) -> цена.
// Без состояния и побочных эффектов, результат детерминирован.
type Pricing struct {
	currency string
	table    map[models.VIPTier]map[int]float64
}

// Опубликованная сетка тарифов: длительность в днях -> цена
func defaultPriceTable() map[models.VIPTier]map[int]float64 {
	return map[models.VIPTier]map[int]float64{
		models.VIPTierEmployee: {
			7:   3000,
			30:  10000,
			90:  25000,
			365: 80000,
		},
		models.VIPTierEstablishment: {
			7:   5000,
			30:  18000,
			90:  45000,
			365: 150000,
		},
	}
}

func NewPricing(currency string) *Pricing {
	if currency == "" {
		currency = "KZT"
	}
	return &Pricing{
		currency: currency,
		table:    defaultPriceTable(),
	}
}

// Resolve возвращает цену для пары (tier, durationDays).
// ErrInvalidVIPTier / ErrInvalidVIPDuration для всего вне сетки.
func (p *Pricing) Resolve(tier models.VIPTier, durationDays int) (Price, error) {
	durations, ok := p.table[tier]
	if !ok {
		return Price{}, apperrors.ErrInvalidVIPTier
	}

	amount, ok := durations[durationDays]
	if !ok {
		return Price{}, apperrors.ErrInvalidVIPDuration
	}

	return Price{Amount: amount, Currency: p.currency}, nil
}

// ListOptions возвращает прайс-лист для отображения, отсортированный
// по длительности
func (p *Pricing) ListOptions(tier models.VIPTier) ([]dto.PricingOption, error) {
	durations, ok := p.table[tier]
	if !ok {
		return nil, apperrors.ErrInvalidVIPTier
	}

	options := make([]dto.PricingOption, 0, len(durations))
	for days, amount := range durations {
		options = append(options, dto.PricingOption{
			DurationDays: days,
			Price:        amount,
			Currency:     p.currency,
		})
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].DurationDays < options[j].DurationDays
	})

	return options, nil
}

package vip

import (
	"testing"

	"relax_backend/internal/models"
	"relax_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingResolve(t *testing.T) {
	p := NewPricing("KZT")

	tests := []struct {
		name     string
		tier     models.VIPTier
		days     int
		want     float64
		wantCode apperrors.ErrorCode
	}{
		{name: "employee week", tier: models.VIPTierEmployee, days: 7, want: 3000},
		{name: "employee month", tier: models.VIPTierEmployee, days: 30, want: 10000},
		{name: "employee year", tier: models.VIPTierEmployee, days: 365, want: 80000},
		{name: "establishment quarter", tier: models.VIPTierEstablishment, days: 90, want: 45000},
		{name: "off-grid duration", tier: models.VIPTierEmployee, days: 45, wantCode: apperrors.CodeValidationFailed},
		{name: "zero duration", tier: models.VIPTierEmployee, days: 0, wantCode: apperrors.CodeValidationFailed},
		{name: "negative duration", tier: models.VIPTierEstablishment, days: -7, wantCode: apperrors.CodeValidationFailed},
		{name: "unknown tier", tier: "banner", days: 30, wantCode: apperrors.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := p.Resolve(tt.tier, tt.days)
			if tt.wantCode != "" {
				appErr, ok := apperrors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, price.Amount)
			assert.Equal(t, "KZT", price.Currency)
		})
	}
}

func TestPricingResolveIsDeterministic(t *testing.T) {
	p := NewPricing("KZT")

	first, err := p.Resolve(models.VIPTierEmployee, 30)
	require.NoError(t, err)
	second, err := p.Resolve(models.VIPTierEmployee, 30)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPricingListOptionsSorted(t *testing.T) {
	p := NewPricing("KZT")

	options, err := p.ListOptions(models.VIPTierEstablishment)
	require.NoError(t, err)
	require.Len(t, options, 4)

	for i := 1; i < len(options); i++ {
		assert.Less(t, options[i-1].DurationDays, options[i].DurationDays)
		assert.Less(t, options[i-1].Price, options[i].Price)
	}

	_, err = p.ListOptions("banner")
	assert.Error(t, err)
}

func TestPricingDefaultCurrency(t *testing.T) {
	p := NewPricing("")

	price, err := p.Resolve(models.VIPTierEmployee, 7)
	require.NoError(t, err)
	assert.Equal(t, "KZT", price.Currency)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"relax_backend/internal/auth"
	"relax_backend/internal/config"
	"relax_backend/internal/services/vip"
	"relax_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 15
	m.Run()
}

// Сервис без репозитория: маршруты, не доходящие до БД
func setupVIPRouter(t *testing.T) *gin.Engine {
	t.Helper()

	svc := vip.NewService(
		nil,
		vip.NewPricing("KZT"),
		vip.NewAccess(nil),
		nil,
		nil,
		nil,
		nil,
	)

	base := NewBaseHandler(validator.New())
	h := NewVIPHandler(base, svc)

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)
	return r
}

func bearerToken(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestGetPricingReturnsOptions(t *testing.T) {
	r := setupVIPRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vip/pricing/employee_profile", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Tier    string `json:"tier"`
		Options []struct {
			DurationDays int     `json:"duration_days"`
			Price        float64 `json:"price"`
			Currency     string  `json:"currency"`
		} `json:"options"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "employee_profile", body.Tier)
	require.Len(t, body.Options, 4)
	assert.Equal(t, 7, body.Options[0].DurationDays)
	assert.Equal(t, 3000.0, body.Options[0].Price)
	assert.Equal(t, "KZT", body.Options[0].Currency)
}

func TestGetPricingUnknownTier(t *testing.T) {
	r := setupVIPRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vip/pricing/banner", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
}

func TestPurchaseRequiresAuth(t *testing.T) {
	r := setupVIPRouter(t)

	payload, _ := json.Marshal(map[string]any{
		"tier":           "employee_profile",
		"entity_id":      "123e4567-e89b-12d3-a456-426614174000",
		"duration":       30,
		"payment_method": "cash",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vip/purchase", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPurchaseRejectsMalformedBody(t *testing.T) {
	r := setupVIPRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing tier", body: map[string]any{
			"entity_id": "123e4567-e89b-12d3-a456-426614174000", "duration": 30, "payment_method": "cash",
		}},
		{name: "bad tier", body: map[string]any{
			"tier": "banner", "entity_id": "123e4567-e89b-12d3-a456-426614174000", "duration": 30, "payment_method": "cash",
		}},
		{name: "bad payment method", body: map[string]any{
			"tier": "employee_profile", "entity_id": "123e4567-e89b-12d3-a456-426614174000", "duration": 30, "payment_method": "crypto",
		}},
		{name: "entity id not uuid", body: map[string]any{
			"tier": "employee_profile", "entity_id": "42", "duration": 30, "payment_method": "cash",
		}},
		{name: "zero duration", body: map[string]any{
			"tier": "employee_profile", "entity_id": "123e4567-e89b-12d3-a456-426614174000", "duration": 0, "payment_method": "cash",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(tt.body)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/vip/purchase", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", bearerToken(t, "user-1", "user"))
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAdminRoutesForbiddenForUsers(t *testing.T) {
	r := setupVIPRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vip/admin/transactions", nil)
	req.Header.Set("Authorization", bearerToken(t, "user-1", "user"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutesRejectAnonymous(t *testing.T) {
	r := setupVIPRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vip/admin/transactions/tx-1/verify", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

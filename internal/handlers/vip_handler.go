package handlers

import (
	"net/http"

	"relax_backend/internal/dto"
	"relax_backend/internal/middleware"
	"relax_backend/internal/models"
	"relax_backend/internal/services/vip"

	"github.com/gin-gonic/gin"
)

// VIPHandler - HTTP-поверхность жизненного цикла VIP-подписок
type VIPHandler struct {
	*BaseHandler
	vipService *vip.Service
}

func NewVIPHandler(base *BaseHandler, vipService *vip.Service) *VIPHandler {
	return &VIPHandler{
		BaseHandler: base,
		vipService:  vipService,
	}
}

func (h *VIPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	v := rg.Group("/vip")
	{
		// Прайс-лист публичный
		v.GET("/pricing/:tier", h.GetPricing)

		authed := v.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/purchase", h.Purchase)
			authed.GET("/my-subscriptions", h.MySubscriptions)
			authed.POST("/subscriptions/:id/cancel", h.Cancel)
		}

		admin := v.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
		{
			admin.GET("/transactions", h.ListTransactions)
			admin.POST("/transactions/:id/verify", h.Verify)
			admin.POST("/transactions/:id/reject", h.Reject)
		}
	}
}

// Purchase godoc
// @Summary      Покупка VIP-размещения
// @Tags         vip
// @Accept       json
// @Produce      json
// @Param        request body dto.PurchaseVIPRequest true "Параметры покупки"
// @Success      201 {object} dto.PurchaseVIPResponse
// @Failure      400 {object} apperrors.AppError
// @Router       /vip/purchase [post]
// @Security     BearerAuth
func (h *VIPHandler) Purchase(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.PurchaseVIPRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.vipService.Purchase(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetPricing godoc
// @Summary      Прайс-лист VIP-размещения
// @Tags         vip
// @Produce      json
// @Param        tier path string true "Тип размещения" Enums(employee_profile, establishment)
// @Success      200 {array} dto.PricingOption
// @Router       /vip/pricing/{tier} [get]
func (h *VIPHandler) GetPricing(c *gin.Context) {
	tier := models.VIPTier(c.Param("tier"))

	options, err := h.vipService.Pricing(tier)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tier": tier, "options": options})
}

// MySubscriptions godoc
// @Summary      Мои VIP-подписки
// @Tags         vip
// @Produce      json
// @Success      200 {object} dto.MySubscriptionsResponse
// @Router       /vip/my-subscriptions [get]
// @Security     BearerAuth
func (h *VIPHandler) MySubscriptions(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	resp, err := h.vipService.MySubscriptions(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary      Отмена активной VIP-подписки
// @Tags         vip
// @Accept       json
// @Produce      json
// @Param        id path string true "ID подписки"
// @Success      200 {object} models.VIPSubscription
// @Router       /vip/subscriptions/{id}/cancel [post]
// @Security     BearerAuth
func (h *VIPHandler) Cancel(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}
	subscriptionID := c.Param("id")

	var req dto.CancelVIPRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sub, err := h.vipService.CancelSubscription(c.Request.Context(), userID, middleware.CurrentRole(c), subscriptionID, models.VIPTier(req.Tier))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// --- Админские операции ---

// Verify godoc
// @Summary      Подтверждение cash-платежа
// @Tags         vip-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "ID транзакции"
// @Param        request body dto.VerifyTransactionRequest false "Заметки админа"
// @Success      200 {object} models.VIPSubscription
// @Router       /vip/admin/transactions/{id}/verify [post]
// @Security     BearerAuth
func (h *VIPHandler) Verify(c *gin.Context) {
	adminID, ok := h.RequireUserID(c)
	if !ok {
		return
	}
	transactionID := c.Param("id")

	var req dto.VerifyTransactionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sub, err := h.vipService.VerifyPayment(c.Request.Context(), adminID, middleware.CurrentRole(c), transactionID, req.AdminNotes)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// Reject godoc
// @Summary      Отклонение платежа
// @Tags         vip-admin
// @Accept       json
// @Produce      json
// @Param        id path string true "ID транзакции"
// @Param        request body dto.RejectTransactionRequest true "Причина отклонения"
// @Success      200 {object} models.PaymentTransaction
// @Router       /vip/admin/transactions/{id}/reject [post]
// @Security     BearerAuth
func (h *VIPHandler) Reject(c *gin.Context) {
	adminID, ok := h.RequireUserID(c)
	if !ok {
		return
	}
	transactionID := c.Param("id")

	var req dto.RejectTransactionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	tx, err := h.vipService.RejectPayment(c.Request.Context(), adminID, middleware.CurrentRole(c), transactionID, req.AdminNotes)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// ListTransactions godoc
// @Summary      Список платежных транзакций
// @Tags         vip-admin
// @Produce      json
// @Success      200 {array} models.PaymentTransaction
// @Router       /vip/admin/transactions [get]
// @Security     BearerAuth
func (h *VIPHandler) ListTransactions(c *gin.Context) {
	var criteria dto.TransactionListCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	txs, err := h.vipService.ListTransactions(c.Request.Context(), middleware.CurrentRole(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}

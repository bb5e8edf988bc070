package handlers

import (
	"net/http"

	"relax_backend/internal/dto"
	"relax_backend/internal/middleware"
	"relax_backend/internal/models"
	"relax_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("/:kind/:entityId", h.ListForEntity)
		reviews.POST("", middleware.AuthMiddleware(), h.Create)
	}
}

// Create godoc
// @Summary      Создание отзыва
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateReviewRequest true "Отзыв"
// @Success      201 {object} models.Review
// @Router       /reviews [post]
// @Security     BearerAuth
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListForEntity godoc
// @Summary      Отзывы на анкету или заведение
// @Tags         reviews
// @Produce      json
// @Param        kind path string true "Тип сущности" Enums(employee_profile, establishment)
// @Param        entityId path string true "ID сущности"
// @Success      200 {array} models.Review
// @Router       /reviews/{kind}/{entityId} [get]
func (h *ReviewHandler) ListForEntity(c *gin.Context) {
	var criteria dto.ReviewListCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	reviews, err := h.reviewService.ListForEntity(
		c.Param("entityId"),
		models.VIPTier(c.Param("kind")),
		criteria,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

package handlers

import (
	"net/http"

	"relax_backend/internal/dto"
	"relax_backend/internal/middleware"
	"relax_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// DirectoryHandler - каталог анкет и заведений.
// Списки публичные, создание требует аутентификации.
type DirectoryHandler struct {
	*BaseHandler
	directoryService services.DirectoryService
}

func NewDirectoryHandler(base *BaseHandler, directoryService services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{
		BaseHandler:      base,
		directoryService: directoryService,
	}
}

func (h *DirectoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	employees := rg.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.POST("", middleware.AuthMiddleware(), h.CreateEmployee)
	}

	establishments := rg.Group("/establishments")
	{
		establishments.GET("", h.ListEstablishments)
		establishments.GET("/:id", h.GetEstablishment)
		establishments.POST("", middleware.AuthMiddleware(), h.CreateEstablishment)
	}
}

// ListEmployees godoc
// @Summary      Список анкет, VIP первыми
// @Tags         directory
// @Produce      json
// @Param        city query string false "Фильтр по городу"
// @Success      200 {array} models.EmployeeProfile
// @Router       /employees [get]
func (h *DirectoryHandler) ListEmployees(c *gin.Context) {
	var criteria dto.DirectoryListCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	profiles, err := h.directoryService.ListEmployees(c.Request.Context(), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": profiles, "count": len(profiles)})
}

func (h *DirectoryHandler) GetEmployee(c *gin.Context) {
	profile, err := h.directoryService.GetEmployee(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": profile})
}

func (h *DirectoryHandler) CreateEmployee(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEmployeeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.directoryService.CreateEmployee(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"employee": profile})
}

// ListEstablishments godoc
// @Summary      Список заведений, VIP первыми
// @Tags         directory
// @Produce      json
// @Param        city query string false "Фильтр по городу"
// @Success      200 {array} models.Establishment
// @Router       /establishments [get]
func (h *DirectoryHandler) ListEstablishments(c *gin.Context) {
	var criteria dto.DirectoryListCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	ests, err := h.directoryService.ListEstablishments(c.Request.Context(), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"establishments": ests, "count": len(ests)})
}

func (h *DirectoryHandler) GetEstablishment(c *gin.Context) {
	est, err := h.directoryService.GetEstablishment(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"establishment": est})
}

func (h *DirectoryHandler) CreateEstablishment(c *gin.Context) {
	userID, ok := h.RequireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEstablishmentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	est, err := h.directoryService.CreateEstablishment(userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"establishment": est})
}

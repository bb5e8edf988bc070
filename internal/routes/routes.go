package routes

import (
	"net/http"

	"relax_backend/internal/handlers"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// AppHandlers - все HTTP-обработчики приложения
type AppHandlers struct {
	Auth         *handlers.AuthHandler
	Directory    *handlers.DirectoryHandler
	Review       *handlers.ReviewHandler
	VIP          *handlers.VIPHandler
	Notification *handlers.NotificationHandler
}

// RegisterRoutes регистрирует все маршруты приложения
func RegisterRoutes(r *gin.Engine, h *AppHandlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		h.Auth.RegisterRoutes(api)
		h.Directory.RegisterRoutes(api)
		h.Review.RegisterRoutes(api)
		h.VIP.RegisterRoutes(api)
		h.Notification.RegisterRoutes(api)
	}
}

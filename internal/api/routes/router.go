package routes

import (
	"github.com/gin-gonic/gin"
	_ "github.com/linskybing/scan2cad/docs"
	"github.com/linskybing/scan2cad/internal/api/handlers"
	"github.com/linskybing/scan2cad/internal/api/middleware"
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/repository"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func RegisterRoutes(r *gin.Engine, repos *repository.Repos, svc *application.Services, hub *events.Hub) {
	h := handlers.New(svc, hub)
	authMiddleware := middleware.NewAuth(repos)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.User.Register)
		auth.POST("/login", h.User.Login)
		auth.POST("/logout", h.User.Logout)
		auth.POST("/verify-email", h.User.VerifyEmail)
		auth.POST("/forgot-password", h.User.ForgotPassword)
		auth.POST("/reset-password", h.User.ResetPassword)
		auth.GET("/me", middleware.JWTAuthMiddleware(), h.User.Me)
	}

	protected := r.Group("/")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/ws", h.Socket.Serve)

		QuotationRoutes(protected, h.Quotation, authMiddleware)

		rates := protected.Group("/rateconfig")
		{
			rates.GET("", h.Rate.List)
			rates.GET("/active", h.Rate.Active)
			rates.POST("", authMiddleware.Admin(), h.Rate.Create)
			rates.PUT("/:id", authMiddleware.Admin(), h.Rate.Update)
			rates.DELETE("/:id", authMiddleware.Admin(), h.Rate.Delete)
		}

		users := protected.Group("/users")
		{
			users.GET("/:id/hours", authMiddleware.SelfOrAdmin(), h.User.GetHours)
			users.PUT("/:id/hours", authMiddleware.Admin(), h.User.GrantHours)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", h.Notification.List)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
			notifications.DELETE("/:id", h.Notification.Delete)
		}

		payments := protected.Group("/payments")
		{
			payments.POST("/hours", h.Payment.PurchaseHours)
			payments.GET("/hours", h.Payment.List)
		}
	}
}

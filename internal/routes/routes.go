package routes

import (
	"github.com/gin-gonic/gin"

	"rollcall/internal/handlers"
	"rollcall/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	checkinHandler *handlers.CheckinHandler,
	jwtSecret []byte,
) *gin.Engine {

	api := r.Group("/api/v1")

	// ---- public
	api.POST("/register", authHandler.Register)
	api.GET("/verify/:id/:token", authHandler.Verify)
	api.POST("/login", authHandler.Login)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.GET("/reset/:userId", authHandler.ResetPasswordPage)
	api.POST("/reset-password/:userId", authHandler.ResetPassword)

	// ---- protected
	auth := api.Group("", middleware.AuthMiddleware(jwtSecret))
	{
		auth.POST("/signout", authHandler.SignOut)
		auth.POST("/checkin", checkinHandler.Submit)
		auth.GET("/checkins", checkinHandler.List)
	}

	return r
}

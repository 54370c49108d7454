package routes

import (
	"github.com/gin-gonic/gin"

	"notificationservice/internal/authz"
	"notificationservice/internal/handlers"
	"notificationservice/internal/middleware"
)

type Handlers struct {
	Notification  *handlers.NotificationHandler
	Otp           *handlers.OtpHandler
	Communication *handlers.CommunicationHandler
	PasswordReset *handlers.PasswordResetHandler
	Admin         *handlers.AdminHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, jwtSecret []byte) *gin.Engine {
	api := r.Group("/api", middleware.AuthMiddleware(jwtSecret))

	notification := api.Group("/notification")
	{
		notification.GET("/:id", h.Notification.GetByID)
		notification.POST("", h.Notification.Create)
	}

	email := api.Group("/email")
	{
		email.POST("/forget-password", h.Notification.EmailForgetPassword)
		email.POST("/welcome", h.Notification.EmailWelcome)
		email.POST("/order-confirmation", h.Notification.EmailOrderConfirmation)
	}

	sms := api.Group("/sms")
	{
		sms.POST("/forget-password", h.Notification.SmsForgetPassword)
		sms.POST("/verification", h.Notification.SmsVerification)
	}

	app := api.Group("/app")
	{
		app.POST("/new-message", h.Notification.AppNewMessage)
		app.POST("/review-approved", h.Notification.AppReviewApproved)
		app.POST("/review-rejected", h.Notification.AppReviewRejected)
	}

	otp := api.Group("/otp")
	{
		otp.POST("/create", h.Otp.Create)
		otp.POST("/validate", h.Otp.Validate)
		otp.DELETE("/delete-many", h.Otp.DeleteMany)
	}

	communication := api.Group("/communication")
	{
		communication.POST("/forget-password/email", h.Communication.ForgetPasswordEmail)
		communication.POST("/forget-password/sms", h.Communication.ForgetPasswordSms)
	}

	api.GET("/password-reset/:id", h.PasswordReset.Get)

	admin := api.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.POST("/notification-params/cache/clear", h.Admin.ClearParamsCache)
	}

	return r
}

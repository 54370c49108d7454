package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notificationservice/internal/models"
	"notificationservice/internal/services"
)

// CommunicationHandler sends messages synchronously, bypassing the queue.
type CommunicationHandler struct {
	email services.EmailService
	sms   services.SmsService
	log   *zap.Logger
}

func NewCommunicationHandler(email services.EmailService, sms services.SmsService, log *zap.Logger) *CommunicationHandler {
	return &CommunicationHandler{email: email, sms: sms, log: log.Named("communication-handler")}
}

// @Summary      Send forget password email now
// @Tags         Communication
// @Accept       json
// @Produce      json
// @Param        request  body      models.ForgetPasswordEmailRequest  true  "Email and code"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/communication/forget-password/email [post]
func (h *CommunicationHandler) ForgetPasswordEmail(c *gin.Context) {
	var req models.ForgetPasswordEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Code is required"})
		return
	}

	if err := h.email.SendForgetPasswordEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		h.log.Error("forget password email failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent successfully", "email": req.Email})
}

// @Summary      Send forget password sms now
// @Tags         Communication
// @Accept       json
// @Produce      json
// @Param        request  body      models.ForgetPasswordSmsRequest  true  "Phone number and code"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/communication/forget-password/sms [post]
func (h *CommunicationHandler) ForgetPasswordSms(c *gin.Context) {
	var req models.ForgetPasswordSmsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Phone number is required"})
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Code is required"})
		return
	}

	if err := h.sms.SendForgetPasswordSms(c.Request.Context(), req.PhoneNumber, req.Code); err != nil {
		h.log.Error("forget password sms failed", zap.String("phone", req.PhoneNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send SMS"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset SMS sent successfully", "phoneNumber": req.PhoneNumber})
}

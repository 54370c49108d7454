package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notificationservice/internal/models"
	"notificationservice/internal/services"
)

type OtpHandler struct {
	service services.OtpService
	log     *zap.Logger
}

func NewOtpHandler(service services.OtpService, log *zap.Logger) *OtpHandler {
	return &OtpHandler{service: service, log: log.Named("otp-handler")}
}

// @Summary      Create OTP
// @Description  Issues a six digit code for the subject id, replacing any earlier code.
// @Tags         OTP
// @Produce      json
// @Param        id       query     string  true  "Subject id (email, phone, ...)"
// @Param        type     query     string  true  "email or sms"
// @Param        purpose  query     string  true  "Purpose"
// @Success      200      {object}  models.OtpResponse
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/otp/create [post]
func (h *OtpHandler) Create(c *gin.Context) {
	id, ok := requireQuery(c, "id", "Id")
	if !ok {
		return
	}
	typ, ok := requireQuery(c, "type", "Type")
	if !ok {
		return
	}
	if typ != models.ChannelEmail && typ != models.ChannelSMS {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type must be 'email' or 'sms'"})
		return
	}
	purpose, ok := requireQuery(c, "purpose", "Purpose")
	if !ok {
		return
	}

	resp, err := h.service.CreateOtp(c.Request.Context(), models.CreateOtpRequest{ID: id, Type: typ, Purpose: purpose})
	if err != nil {
		h.log.Error("create otp failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create OTP"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Validate OTP
// @Description  Consumes the code and runs the named function (emailVerification, smsVerification, resetPassword).
// @Tags         OTP
// @Produce      json
// @Param        id    query     string  true  "Subject id"
// @Param        code  query     string  true  "Code"
// @Param        type  query     string  true  "OTP function"
// @Success      200   {object}  models.ValidateOtpResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/otp/validate [post]
func (h *OtpHandler) Validate(c *gin.Context) {
	id, ok := requireQuery(c, "id", "Id")
	if !ok {
		return
	}
	code, ok := requireQuery(c, "code", "Code")
	if !ok {
		return
	}
	typ, ok := requireQuery(c, "type", "Type")
	if !ok {
		return
	}

	resp, err := h.service.ValidateOtp(c.Request.Context(), models.ValidateOtpRequest{ID: id, Code: code, Type: typ})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "OTP not found or invalid"})
		case errors.Is(err, services.ErrExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP has expired"})
		default:
			h.log.Error("validate otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate OTP"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Delete OTPs
// @Tags         OTP
// @Accept       json
// @Produce      json
// @Param        request  body      models.DeleteManyOtpRequest  true  "Subject ids"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/otp/delete-many [delete]
func (h *OtpHandler) DeleteMany(c *gin.Context) {
	var req models.DeleteManyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ids are required"})
		return
	}

	if err := h.service.DeleteManyOtp(c.Request.Context(), req); err != nil {
		h.log.Error("delete otps failed", zap.Int("count", len(req.IDs)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete OTPs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTPs deleted successfully"})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notificationservice/internal/services"
)

type PasswordResetHandler struct {
	service services.PasswordResetService
	log     *zap.Logger
}

func NewPasswordResetHandler(service services.PasswordResetService, log *zap.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{service: service, log: log.Named("password-reset-handler")}
}

// @Summary      Check password reset grant
// @Tags         PasswordReset
// @Produce      json
// @Param        id   path      string  true  "Subject id"
// @Success      200  {object}  models.PasswordResetRequest
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/password-reset/{id} [get]
func (h *PasswordResetHandler) Get(c *gin.Context) {
	pr, err := h.service.Lookup(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, pr)
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Password reset request not found"})
	case errors.Is(err, services.ErrExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password reset request has expired"})
	default:
		h.log.Error("lookup password reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get password reset request"})
	}
}

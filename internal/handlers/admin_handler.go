package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notificationservice/internal/services"
)

type AdminHandler struct {
	params services.NotificationParamsService
	log    *zap.Logger
}

func NewAdminHandler(params services.NotificationParamsService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{params: params, log: log.Named("admin-handler")}
}

// @Summary      Clear notification params cache
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/notification-params/cache/clear [post]
func (h *AdminHandler) ClearParamsCache(c *gin.Context) {
	h.params.ClearCache()
	caller, _ := getCaller(c)
	h.log.Info("params cache cleared", zap.String("caller", caller))
	c.JSON(http.StatusOK, gin.H{"message": "Notification params cache cleared"})
}

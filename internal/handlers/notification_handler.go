package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"notificationservice/internal/models"
	"notificationservice/internal/services"
)

type NotificationHandler struct {
	service services.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, log: log.Named("notification-handler")}
}

// @Summary      Get notification
// @Tags         Notification
// @Produce      json
// @Param        id   path      string  true  "Notification ID (uuid)"
// @Success      200  {object}  models.Notification
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/notification/{id} [get]
func (h *NotificationHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	n, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		h.log.Error("get notification failed", zap.String("id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notification"})
		return
	}
	c.JSON(http.StatusOK, n)
}

// @Summary      Create notification
// @Description  Stores the notification. Email and sms are pushed to the delivery queue.
// @Tags         Notification
// @Accept       json
// @Produce      json
// @Param        notification  body      models.CreateNotificationRequest  true  "Notification"
// @Success      200  {object}  models.NotificationResponse
// @Success      202  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/notification [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var req models.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.ProcessNotification(c.Request.Context(), req.Template, req.Channel, req.Recipient, req.Payload)
	if err != nil {
		if errors.Is(err, services.ErrInvalidNotification) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("create notification failed", zap.String("channel", req.Channel), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errProcessNotification})
		return
	}
	if resp == nil {
		c.JSON(http.StatusAccepted, gin.H{"message": "accepted"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// process runs one query-parameter notification endpoint. recipientKey names
// the mandatory parameter that becomes the recipient; keys lists everything
// copied into the payload.
func (h *NotificationHandler) process(c *gin.Context, template, channel, recipientKey, label string, keys ...string) (*models.NotificationResponse, bool) {
	recipient, ok := requireQuery(c, recipientKey, label)
	if !ok {
		return nil, false
	}
	payload, err := queryPayload(c, keys...)
	if err != nil {
		h.log.Error("encode payload failed", zap.String("template", template), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errProcessNotification})
		return nil, false
	}

	resp, err := h.service.ProcessNotification(c.Request.Context(), template, channel, recipient, payload)
	if err != nil {
		h.log.Error("process notification failed",
			zap.String("template", template),
			zap.String("channel", channel),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errProcessNotification})
		return nil, false
	}
	return resp, true
}

func (h *NotificationHandler) queued(template, channel, recipientKey, label string, keys ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resp, ok := h.process(c, template, channel, recipientKey, label, keys...); ok {
			c.JSON(http.StatusOK, resp)
		}
	}
}

func (h *NotificationHandler) inApp(template string, keys ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := h.process(c, template, models.ChannelInApp, "id", "Id", keys...); ok {
			c.JSON(http.StatusOK, gin.H{"message": "In-app notification created successfully"})
		}
	}
}

// @Summary      Forget password email
// @Tags         Email
// @Produce      json
// @Param        email  query     string  true   "Recipient email"
// @Param        code   query     string  false  "Reset code"
// @Success      200    {object}  models.NotificationResponse
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/email/forget-password [post]
func (h *NotificationHandler) EmailForgetPassword(c *gin.Context) {
	h.queued("forget-password", models.ChannelEmail, "email", "Email", "email", "code")(c)
}

// @Summary      Welcome email
// @Tags         Email
// @Produce      json
// @Param        email      query     string  true   "Recipient email"
// @Param        firstName  query     string  false  "First name"
// @Success      200        {object}  models.NotificationResponse
// @Failure      400        {object}  map[string]string
// @Failure      500        {object}  map[string]string
// @Router       /api/email/welcome [post]
func (h *NotificationHandler) EmailWelcome(c *gin.Context) {
	h.queued("welcome", models.ChannelEmail, "email", "Email", "email", "firstName")(c)
}

// @Summary      Order confirmation email
// @Tags         Email
// @Produce      json
// @Param        email       query     string  true   "Recipient email"
// @Param        orderId     query     string  false  "Order ID"
// @Param        orderTotal  query     string  false  "Order total"
// @Success      200         {object}  models.NotificationResponse
// @Failure      400         {object}  map[string]string
// @Failure      500         {object}  map[string]string
// @Router       /api/email/order-confirmation [post]
func (h *NotificationHandler) EmailOrderConfirmation(c *gin.Context) {
	h.queued("order-confirmation", models.ChannelEmail, "email", "Email", "email", "orderId", "orderTotal")(c)
}

// @Summary      Forget password sms
// @Tags         SMS
// @Produce      json
// @Param        phone  query     string  true   "Recipient phone"
// @Param        code   query     string  false  "Reset code"
// @Success      200    {object}  models.NotificationResponse
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/sms/forget-password [post]
func (h *NotificationHandler) SmsForgetPassword(c *gin.Context) {
	h.queued("forget-password", models.ChannelSMS, "phone", "Phone", "phone", "code")(c)
}

// @Summary      Verification sms
// @Tags         SMS
// @Produce      json
// @Param        phone  query     string  true   "Recipient phone"
// @Param        code   query     string  false  "Verification code"
// @Success      200    {object}  models.NotificationResponse
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/sms/verification [post]
func (h *NotificationHandler) SmsVerification(c *gin.Context) {
	h.queued("verification", models.ChannelSMS, "phone", "Phone", "phone", "code")(c)
}

// @Summary      New message in-app notification
// @Tags         App
// @Produce      json
// @Param        id       query     string  true   "Recipient user id"
// @Param        message  query     string  false  "Message"
// @Param        from     query     string  false  "Sender"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/app/new-message [post]
func (h *NotificationHandler) AppNewMessage(c *gin.Context) {
	h.inApp("new-message", "id", "message", "from")(c)
}

// @Summary      Review approved in-app notification
// @Tags         App
// @Produce      json
// @Param        id        query     string  true   "Recipient user id"
// @Param        reviewId  query     string  false  "Review ID"
// @Success      200       {object}  map[string]string
// @Router       /api/app/review-approved [post]
func (h *NotificationHandler) AppReviewApproved(c *gin.Context) {
	h.inApp("review-approved", "id", "reviewId")(c)
}

// @Summary      Review rejected in-app notification
// @Tags         App
// @Produce      json
// @Param        id        query     string  true   "Recipient user id"
// @Param        reviewId  query     string  false  "Review ID"
// @Param        reason    query     string  false  "Rejection reason"
// @Success      200       {object}  map[string]string
// @Router       /api/app/review-rejected [post]
func (h *NotificationHandler) AppReviewRejected(c *gin.Context) {
	h.inApp("review-rejected", "id", "reviewId", "reason")(c)
}

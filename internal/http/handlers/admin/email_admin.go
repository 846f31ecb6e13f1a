package admin

import (
	"errors"
	"strings"

	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// EmailTestSendRequest 邮件测试发送请求
type EmailTestSendRequest struct {
	ToEmail string `json:"to_email" binding:"required"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TestEmailSettings 使用当前 SMTP 配置发送一封测试邮件
func (h *Handler) TestEmailSettings(c *gin.Context) {
	var req EmailTestSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	toEmail := strings.TrimSpace(req.ToEmail)
	if toEmail == "" {
		respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		return
	}

	if err := h.EmailService.SendCustomEmail(toEmail, req.Subject, req.Body); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrEmailRecipientRejected):
			respondError(c, response.CodeBadRequest, "error.email_recipient_rejected", nil)
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			respondError(c, response.CodeBadRequest, "error.email_service_not_configured", err)
		default:
			respondError(c, response.CodeInternal, "error.email_send_failed", err)
		}
		return
	}

	requestLog(c).Infow("admin_email_test_sent", "to", toEmail)
	response.Success(c, gin.H{"sent": true})
}

package service

import (
	"net/mail"
	"strings"

	"github.com/vendora/internal/config"
	"github.com/vendora/internal/i18n"
	"github.com/vendora/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 是否已启用并配置
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled && s.cfg.Host != "" && s.cfg.From != ""
}

// PayoutStatusEmailInput 提现状态邮件输入
type PayoutStatusEmailInput struct {
	VendorName    string
	Reference     string
	Status        string
	Amount        models.Money
	Fee           models.Money
	NetAmount     models.Money
	FailureReason string
}

// SendPayoutStatusEmail 发送提现状态通知
func (s *EmailService) SendPayoutStatusEmail(toEmail string, input PayoutStatusEmailInput, locale string) error {
	subject, body := buildPayoutStatusContent(input, locale)
	return s.sendTextEmail(toEmail, subject, body)
}

// LowStockEmailInput 低库存提醒邮件输入
type LowStockEmailInput struct {
	VendorName  string
	ProductName string
	SKU         string
	Stock       int
	Threshold   int
}

// SendLowStockAlert 发送低库存提醒
func (s *EmailService) SendLowStockAlert(toEmail string, input LowStockEmailInput, locale string) error {
	locale = normalizeLocale(locale)
	sku := input.SKU
	if sku == "" {
		sku = "-"
	}
	subject := i18n.Sprintf(locale, "email.low_stock.subject", input.ProductName)
	body := i18n.Sprintf(locale, "email.low_stock.body", input.VendorName, input.ProductName, sku, input.Stock, input.Threshold)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendCustomEmail 发送测试邮件或自定义邮件
func (s *EmailService) SendCustomEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "SMTP test"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "SMTP configuration works."
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	err := deliverSMTP(s.cfg, smtpMessage{
		From:    buildFromAddress(s.cfg.From, s.cfg.FromName),
		To:      toEmail,
		Subject: subject,
		Body:    body,
	})
	return normalizeEmailSendError(err)
}

func buildPayoutStatusContent(input PayoutStatusEmailInput, locale string) (string, string) {
	locale = normalizeLocale(locale)
	statusText := i18n.T(locale, "payout.status."+input.Status)
	extra := ""
	if strings.TrimSpace(input.FailureReason) != "" {
		extra = i18n.Sprintf(locale, "email.payout_status.failure", input.FailureReason)
	}
	subject := i18n.Sprintf(locale, "email.payout_status.subject", input.Reference, statusText)
	body := i18n.Sprintf(locale, "email.payout_status.body",
		input.VendorName,
		input.Reference,
		input.Amount.String(),
		input.Fee.String(),
		input.NetAmount.String(),
		statusText,
		extra,
	)
	return subject, body
}

func normalizeLocale(locale string) string {
	if normalized, ok := i18n.Normalize(locale); ok {
		return normalized
	}
	return i18n.DefaultLocale
}

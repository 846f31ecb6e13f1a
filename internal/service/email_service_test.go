package service

import (
	"errors"
	"net/textproto"
	"strings"
	"testing"

	"github.com/vendora/internal/config"
	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/i18n"
	"github.com/vendora/internal/models"
)

func TestBuildPayoutStatusContent(t *testing.T) {
	input := PayoutStatusEmailInput{
		VendorName:    "Kofi Crafts",
		Reference:     "PO20260101ABCDEF",
		Status:        constants.PayoutStatusFailed,
		Amount:        models.MustMoney("100"),
		Fee:           models.MustMoney("1.5"),
		NetAmount:     models.MustMoney("98.5"),
		FailureReason: "account closed",
	}

	subject, body := buildPayoutStatusContent(input, i18n.LocaleEN)
	if !strings.Contains(subject, "PO20260101ABCDEF") || !strings.Contains(subject, "failed") {
		t.Fatalf("unexpected subject: %s", subject)
	}
	for _, want := range []string{"Kofi Crafts", "100.00", "1.50", "98.50", "Failure reason: account closed"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %s", want, body)
		}
	}

	subject, _ = buildPayoutStatusContent(input, "zh-HK")
	if !strings.Contains(subject, "失敗") && !strings.Contains(subject, "失败") {
		t.Fatalf("expected chinese status text, got %s", subject)
	}
}

func TestSendTextEmailGuards(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := disabled.SendCustomEmail("a@example.com", "", ""); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}

	missingHost := NewEmailService(&config.EmailConfig{Enabled: true, Port: 587, From: "noreply@example.com"})
	if err := missingHost.SendCustomEmail("a@example.com", "", ""); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}

	configured := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	if err := configured.SendLowStockAlert("not-an-email", LowStockEmailInput{ProductName: "Shea butter"}, i18n.LocaleEN); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email error, got %v", err)
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	if err := normalizeEmailSendError(errors.New("550 5.1.1 recipient address rejected")); !errors.Is(err, ErrEmailRecipientRejected) {
		t.Fatalf("expected recipient rejected, got %v", err)
	}
	if err := normalizeEmailSendError(&textproto.Error{Code: 553, Msg: "5.1.3 bad destination"}); !errors.Is(err, ErrEmailRecipientRejected) {
		t.Fatalf("553 reply should map to recipient rejected, got %v", err)
	}
	if err := normalizeEmailSendError(&textproto.Error{Code: 421, Msg: "try again later"}); errors.Is(err, ErrEmailRecipientRejected) {
		t.Fatalf("421 is transient, got %v", err)
	}
	other := errors.New("dial tcp: connection refused")
	if err := normalizeEmailSendError(other); err != other {
		t.Fatalf("unexpected mapping: %v", err)
	}
}

func TestBuildEmailMessageEncodesHeaders(t *testing.T) {
	msg := string(buildEmailMessage(smtpMessage{
		From:    buildFromAddress("noreply@example.com", "Vendora 平台"),
		To:      "kofi@example.com",
		Subject: "提现单 PO1 状态更新",
		Body:    "hello",
	}))
	if !strings.Contains(msg, "=?UTF-8?q?Vendora") || !strings.Contains(msg, "<noreply@example.com>") {
		t.Fatalf("from name should be Q-encoded: %s", msg)
	}
	if !strings.Contains(msg, "Subject: =?UTF-8?q?") {
		t.Fatalf("subject should be Q-encoded: %s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nhello") {
		t.Fatalf("body should follow a blank line: %q", msg)
	}
	if got := buildFromAddress("noreply@example.com", " "); got != "noreply@example.com" {
		t.Fatalf("blank name should keep bare address, got %s", got)
	}
}

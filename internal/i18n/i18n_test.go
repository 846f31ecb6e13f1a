package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocalePrecedence(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9")
	c.Request = req

	if got := ResolveLocale(c); got != LocaleEN {
		t.Fatalf("query lang should win, got %s", got)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Accept-Language", "zh-HK,zh;q=0.9")
	if got := ResolveLocale(c); got != LocaleTW {
		t.Fatalf("expected zh-TW from accept-language, got %s", got)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Accept-Language", "fr-FR")
	if got := ResolveLocale(c); got != DefaultLocale {
		t.Fatalf("unsupported locale should fall back, got %s", got)
	}
}

func TestTFallsBackToDefaultThenKey(t *testing.T) {
	if got := T(LocaleTW, "error.payout_fee_invalid"); got != messages[LocaleZH]["error.payout_fee_invalid"] {
		t.Fatalf("expected default-locale fallback, got %s", got)
	}
	if got := T(LocaleEN, "error.not_a_key"); got != "error.not_a_key" {
		t.Fatalf("expected key fallback, got %s", got)
	}
}

func TestEveryLocaleHasVerbatimPayoutErrors(t *testing.T) {
	for locale, table := range messages {
		for _, key := range []string{"error.payout_insufficient_balance", "error.payout_invalid_transition"} {
			if table[key] == "" {
				t.Fatalf("%s missing %s", locale, key)
			}
		}
	}
}

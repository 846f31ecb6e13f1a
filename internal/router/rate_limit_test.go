package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vendora/internal/http/response"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func serveStatusCode(t *testing.T, r *gin.Engine, vendorID string) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payouts", nil)
	req.Header.Set("X-Vendor", vendorID)
	r.ServeHTTP(w, req)
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestRateLimitMiddlewareBlocksVendorAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Vendor") == "7" {
			c.Set("vendor_id", uint(7))
		} else {
			c.Set("vendor_id", uint(8))
		}
		c.Next()
	})
	rule := RateLimitRule{Prefix: "rl:payout", WindowSeconds: 60, MaxRequests: 2, BlockSeconds: 120}
	r.Use(RateLimitMiddleware(client, rule, KeyByVendor))
	r.POST("/payouts", func(c *gin.Context) {
		response.Success(c, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		if code := serveStatusCode(t, r, "7"); code != response.CodeOK {
			t.Fatalf("request %d should pass, got %d", i+1, code)
		}
	}
	if code := serveStatusCode(t, r, "7"); code != response.CodeTooManyRequests {
		t.Fatalf("third request should be limited, got %d", code)
	}
	if code := serveStatusCode(t, r, "8"); code != response.CodeOK {
		t.Fatalf("other vendor should not share the limit, got %d", code)
	}

	mr.FastForward(61 * time.Second)
	if code := serveStatusCode(t, r, "7"); code != response.CodeTooManyRequests {
		t.Fatalf("vendor should stay blocked after window, got %d", code)
	}

	mr.FastForward(60 * time.Second)
	if code := serveStatusCode(t, r, "7"); code != response.CodeOK {
		t.Fatalf("vendor should be released after block, got %d", code)
	}
}

func TestKeyByVendor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if key := KeyByVendor(c); key != "" {
		t.Fatalf("missing vendor should return empty key, got %q", key)
	}
	c.Set("vendor_id", uint(12))
	if key := KeyByVendor(c); key != "vendor:12" {
		t.Fatalf("key want vendor:12 got %q", key)
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "uint8", input: uint8(12), want: 12, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}

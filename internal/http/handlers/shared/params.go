package shared

import (
	"strconv"
	"strings"
	"time"

	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ParsePathUint 解析路径中的 ID，失败时直接返回 400
func ParsePathUint(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(key))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

// ParseQueryUint 解析可选的查询参数 ID，为空时返回 0
func ParseQueryUint(c *gin.Context, key string) (uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// ParseTimeNullable 支持 RFC3339 与 2006-01-02 两种格式
func ParseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseDecimal 解析金额字符串
func ParseDecimal(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// ParseEarningsWindow 读取 from / to 查询参数，格式错误或 from 不早于 to 时返回 400
func ParseEarningsWindow(c *gin.Context) (service.EarningsWindow, bool) {
	from, err := ParseTimeNullable(c.Query("from"))
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return service.EarningsWindow{}, false
	}
	to, err := ParseTimeNullable(c.Query("to"))
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return service.EarningsWindow{}, false
	}
	if from != nil && to != nil && !from.Before(*to) {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return service.EarningsWindow{}, false
	}
	return service.EarningsWindow{From: from, To: to}, true
}

package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vendora"

var (
	// HTTPRequests HTTP 请求计数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	// HTTPDuration HTTP 请求耗时
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// PayoutTransitions 提现状态流转计数
	PayoutTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payout_transitions_total",
		Help:      "Payout lifecycle transitions by action and resulting status.",
	}, []string{"action", "status"})

	// PayoutRejections 提现申请被拒计数
	PayoutRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payout_rejections_total",
		Help:      "Rejected payout operations by reason.",
	}, []string{"reason"})

	// LowStockAlerts 低库存告警决策计数
	LowStockAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "low_stock_alerts_total",
		Help:      "Low stock alert decisions by outcome.",
	}, []string{"outcome"})
)

// ObservePayoutTransition 记录提现流转
func ObservePayoutTransition(action, status string) {
	PayoutTransitions.WithLabelValues(action, status).Inc()
}

// ObservePayoutRejection 记录提现拒绝
func ObservePayoutRejection(reason string) {
	PayoutRejections.WithLabelValues(reason).Inc()
}

// ObserveLowStockAlert 记录告警决策：alerted / suppressed / failed
func ObserveLowStockAlert(outcome string) {
	LowStockAlerts.WithLabelValues(outcome).Inc()
}

// Middleware 统计 HTTP 请求，route 使用路由模板避免高基数
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

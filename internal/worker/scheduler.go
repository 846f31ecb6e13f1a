package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/service"
)

const defaultLowStockScanInterval = 30 * time.Minute

// LowStockScanner 周期扫描依赖的最小接口
type LowStockScanner interface {
	Scan(ctx context.Context, input service.LowStockScanInput) (service.ScanResult, error)
}

// LowStockScheduler 定时全量扫描低库存，不依赖任务队列
type LowStockScheduler struct {
	scanner  LowStockScanner
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLowStockScheduler 创建低库存定时扫描服务
func NewLowStockScheduler(scanner LowStockScanner, intervalMinutes int) *LowStockScheduler {
	return &LowStockScheduler{
		scanner:  scanner,
		interval: resolveScanInterval(intervalMinutes),
	}
}

// Name 服务名称
func (s *LowStockScheduler) Name() string {
	return "low_stock_scheduler"
}

// Start 启动后立即扫描一次，之后按间隔执行，直到 ctx 取消或 Stop
func (s *LowStockScheduler) Start(ctx context.Context) error {
	if s == nil || s.scanner == nil {
		return errors.New("low stock scheduler not initialized")
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()
	defer close(done)

	s.runOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop 停止定时扫描并等待当前一轮结束
func (s *LowStockScheduler) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *LowStockScheduler) runOnce(ctx context.Context) {
	result, err := s.scanner.Scan(ctx, service.LowStockScanInput{})
	if err != nil {
		if ctx.Err() == nil {
			logger.Warnw("low_stock_scheduled_scan_failed", "error", err)
		}
		return
	}
	logger.Debugw("low_stock_scheduled_scan_done",
		"checked", result.Checked,
		"alerted", result.Alerted,
		"suppressed", result.Suppressed,
		"failed", result.Failed,
	)
}

func resolveScanInterval(minutes int) time.Duration {
	if minutes <= 0 {
		return defaultLowStockScanInterval
	}
	return time.Duration(minutes) * time.Minute
}

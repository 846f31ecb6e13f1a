package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/service"

	"go.uber.org/zap"
)

type countingScanner struct {
	calls atomic.Int32
	err   error
}

func (s *countingScanner) Scan(ctx context.Context, input service.LowStockScanInput) (service.ScanResult, error) {
	s.calls.Add(1)
	if input.SkipCooldown || input.VendorID != 0 {
		return service.ScanResult{}, errors.New("scheduled scan must cover all vendors with cooldown")
	}
	return service.ScanResult{Checked: 1}, s.err
}

func TestResolveScanInterval(t *testing.T) {
	if got := resolveScanInterval(0); got != defaultLowStockScanInterval {
		t.Fatalf("zero minutes should fall back to default, got %s", got)
	}
	if got := resolveScanInterval(-5); got != defaultLowStockScanInterval {
		t.Fatalf("negative minutes should fall back to default, got %s", got)
	}
	if got := resolveScanInterval(15); got != 15*time.Minute {
		t.Fatalf("unexpected interval: %s", got)
	}
}

func TestLowStockSchedulerScansOnStartAndStops(t *testing.T) {
	logger.L = zap.NewNop()
	scanner := &countingScanner{}
	scheduler := NewLowStockScheduler(scanner, 60)

	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for scanner.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("scheduler did not scan on start")
		}
		time.Sleep(5 * time.Millisecond)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := scheduler.Stop(stopCtx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("start should return nil after stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not exit after stop")
	}
	if got := scanner.calls.Load(); got != 1 {
		t.Fatalf("want exactly one scan before the first tick, got %d", got)
	}
}

func TestLowStockSchedulerKeepsRunningAfterScanError(t *testing.T) {
	logger.L = zap.NewNop()
	scanner := &countingScanner{err: errors.New("db down")}
	scheduler := NewLowStockScheduler(scanner, 60)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for scanner.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("scheduler did not scan on start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("scan errors must not stop the scheduler with an error, got %v", err)
	}
}

func TestLowStockSchedulerStopBeforeStart(t *testing.T) {
	scheduler := NewLowStockScheduler(&countingScanner{}, 1)
	if err := scheduler.Stop(context.Background()); err != nil {
		t.Fatalf("stop before start should be a no-op, got %v", err)
	}
	var empty *LowStockScheduler
	if err := empty.Start(context.Background()); err == nil {
		t.Fatalf("nil scheduler should refuse to start")
	}
}

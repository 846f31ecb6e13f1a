package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingService struct {
	name     string
	startErr error
	blocking bool
	log      *callLog
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (s *recordingService) Name() string { return s.name }

func (s *recordingService) Start(ctx context.Context) error {
	if !s.blocking {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *recordingService) Stop(ctx context.Context) error {
	s.log.add("stop:" + s.name)
	return nil
}

func TestRunnerStopsInReverseOrderThenCleansUp(t *testing.T) {
	log := &callLog{}
	failing := errors.New("listen failed")
	runner := NewRunner(
		&recordingService{name: "http", blocking: true, log: log},
		&recordingService{name: "queue_worker", blocking: true, log: log},
		&recordingService{name: "low_stock_scheduler", startErr: failing, log: log},
	)
	runner.OnShutdown(func() error {
		log.add("close")
		return nil
	})

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, failing) {
		t.Fatalf("want first service error, got %v", err)
	}
	want := []string{"stop:low_stock_scheduler", "stop:queue_worker", "stop:http", "close"}
	got := log.snapshot()
	if len(got) != len(want) {
		t.Fatalf("want %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v got %v", want, got)
		}
	}
}

func TestRunnerCancelledContextIsCleanExit(t *testing.T) {
	log := &callLog{}
	runner := NewRunner(&recordingService{name: "http", blocking: true, log: log})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("signal shutdown should return nil, got %v", err)
	}
	if got := log.snapshot(); len(got) != 1 || got[0] != "stop:http" {
		t.Fatalf("want http stopped, got %v", got)
	}
}

func TestRunnerRejectsEmptyAndNilServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("nil service should fail")
	}
}

func TestNormalizeOptionsMode(t *testing.T) {
	opts := normalizeOptions(Options{Mode: " Worker "})
	if opts.Mode != ModeWorker {
		t.Fatalf("mode should be normalized, got %q", opts.Mode)
	}
	if normalizeOptions(Options{}).Mode != ModeAll {
		t.Fatalf("empty mode should default to all")
	}
}

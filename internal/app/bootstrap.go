package app

import (
	"errors"
	"fmt"

	"github.com/vendora/internal/config"
	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/provider"
	"github.com/vendora/internal/router"
	"github.com/vendora/internal/worker"
)

// BuildRunner 按运行模式组装服务
// api：只提供 HTTP；worker：任务消费 + 低库存定时扫描；all：全部
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if mode != ModeAll && mode != ModeAPI && mode != ModeWorker {
		return nil, fmt.Errorf("unknown run mode: %s", mode)
	}

	container := provider.NewContainer(cfg)

	var services []Service
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(cfg, worker.NewConsumer(container))
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else {
			// 队列关闭时提现邮件不会入队，低库存扫描仍可定时执行
			logger.Warnw("app_queue_worker_disabled", "mode", mode)
		}
		if cfg.LowStock.ScanEnabled {
			services = append(services, worker.NewLowStockScheduler(container.LowStockService, cfg.LowStock.ScanIntervalMinutes))
		}
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("no services enabled for mode %s (queue.enabled and low_stock.scan_enabled are both off)", mode)
	}

	runner := NewRunner(services...)
	runner.OnShutdown(container.Close)
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

package worker

import (
	"context"
	"errors"

	"github.com/vendora/internal/config"
	"github.com/vendora/internal/queue"

	"github.com/hibiken/asynq"
)

// Service asynq 任务消费服务：提现状态邮件、按需低库存扫描
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建任务消费服务，队列未启用时返回错误
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server: asynq.NewServer(opt, serverCfg),
		mux:    mux,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "queue_worker"
}

// Start 阻塞运行直到 Shutdown
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

// Stop 等待进行中的任务结束后退出
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

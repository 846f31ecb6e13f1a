package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/provider"
	"github.com/vendora/internal/queue"
	"github.com/vendora/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPayoutStatusEmail, c.handlePayoutStatusEmail)
	mux.HandleFunc(queue.TaskLowStockScan, c.handleLowStockScan)
}

func (c *Consumer) handlePayoutStatusEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payout_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := decodePayoutStatusEmailPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_payout_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.PayoutID == 0 {
		logger.Debugw("worker_payout_status_email_skip_invalid_payload", "payout_id", payload.PayoutID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_payout_status_email_skip_service_nil", "payout_id", payload.PayoutID)
		return nil
	}
	if err := c.NotificationService.SendPayoutStatusEmail(ctx, payload); err != nil {
		logger.Warnw("worker_payout_status_email_send_failed",
			"payout_id", payload.PayoutID,
			"status", payload.Status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleLowStockScan(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_low_stock_scan_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := decodeLowStockScanPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_low_stock_scan_unmarshal_failed", "error", err)
		return err
	}
	if c.LowStockService == nil {
		logger.Warnw("worker_low_stock_scan_skip_service_nil", "vendor_id", payload.VendorID)
		return nil
	}
	result, err := c.LowStockService.Scan(ctx, service.LowStockScanInput{
		VendorID:     payload.VendorID,
		SkipCooldown: payload.SkipCooldown,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debugw("worker_low_stock_scan_cancelled", "vendor_id", payload.VendorID)
			return nil
		}
		logger.Warnw("worker_low_stock_scan_failed", "vendor_id", payload.VendorID, "error", err)
		return err
	}
	logger.Infow("worker_low_stock_scan_done",
		"vendor_id", payload.VendorID,
		"requested_by", payload.RequestedBy,
		"skip_cooldown", payload.SkipCooldown,
		"alerted", result.Alerted,
		"suppressed", result.Suppressed,
		"failed", result.Failed,
	)
	return nil
}

func decodePayoutStatusEmailPayload(body []byte) (queue.PayoutStatusEmailPayload, error) {
	var payload queue.PayoutStatusEmailPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func decodeLowStockScanPayload(body []byte) (queue.LowStockScanPayload, error) {
	var payload queue.LowStockScanPayload
	if len(body) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

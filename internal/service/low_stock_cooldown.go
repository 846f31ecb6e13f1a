package service

import (
	"context"
	"sync"
	"time"

	"github.com/vendora/internal/cache"
	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/repository"

	"github.com/redis/go-redis/v9"
)

// DefaultAlertCooldown 同一商品两次低库存告警的最小间隔
const DefaultAlertCooldown = 24 * time.Hour

// CooldownStore 最近告警时间的存储
type CooldownStore interface {
	LastAlertedAt(ctx context.Context, vendorID, productID uint) (time.Time, bool, error)
	// ttl 为写入时生效的冷却窗口，只有支持过期的存储使用
	SaveAlertedAt(ctx context.Context, vendorID, productID uint, at time.Time, ttl time.Duration) error
}

// AlertDecision 告警判定结果；冷却中不是错误，而是 Fire=false
type AlertDecision struct {
	Fire   bool
	Reason string
}

// LowStockCooldown 按 (商户, 商品) 抑制重复的低库存告警
type LowStockCooldown struct {
	store  CooldownStore
	window time.Duration
}

// NewLowStockCooldown 创建冷却判定器，window<=0 时使用 24 小时
func NewLowStockCooldown(store CooldownStore, window time.Duration) *LowStockCooldown {
	if window <= 0 {
		window = DefaultAlertCooldown
	}
	return &LowStockCooldown{store: store, window: window}
}

// Window 冷却窗口
func (c *LowStockCooldown) Window() time.Duration {
	return c.window
}

func (c *LowStockCooldown) resolveWindow(window time.Duration) time.Duration {
	if window <= 0 {
		return c.window
	}
	return window
}

// Decide 只读判定，不修改任何记录
func (c *LowStockCooldown) Decide(ctx context.Context, vendorID, productID uint, now time.Time, skipCooldown bool) (AlertDecision, error) {
	return c.DecideWithin(ctx, vendorID, productID, now, skipCooldown, c.window)
}

// DecideWithin 按指定窗口判定，window<=0 时使用默认窗口
func (c *LowStockCooldown) DecideWithin(ctx context.Context, vendorID, productID uint, now time.Time, skipCooldown bool, window time.Duration) (AlertDecision, error) {
	window = c.resolveWindow(window)
	if skipCooldown {
		return AlertDecision{Fire: true, Reason: constants.AlertReasonBypassed}, nil
	}
	last, ok, err := c.store.LastAlertedAt(ctx, vendorID, productID)
	if err != nil {
		return AlertDecision{}, err
	}
	if !ok {
		return AlertDecision{Fire: true, Reason: constants.AlertReasonFirst}, nil
	}
	if now.Sub(last) >= window {
		return AlertDecision{Fire: true, Reason: constants.AlertReasonElapsed}, nil
	}
	return AlertDecision{Fire: false, Reason: constants.AlertReasonCooldownActive}, nil
}

// ShouldAlert 是否应发送告警
func (c *LowStockCooldown) ShouldAlert(ctx context.Context, vendorID, productID uint, now time.Time, skipCooldown bool) (bool, error) {
	decision, err := c.Decide(ctx, vendorID, productID, now, skipCooldown)
	if err != nil {
		return false, err
	}
	return decision.Fire, nil
}

// RecordAlert 记录告警已成功发送，只能在发送成功后调用
func (c *LowStockCooldown) RecordAlert(ctx context.Context, vendorID, productID uint, now time.Time) error {
	return c.RecordAlertWithin(ctx, vendorID, productID, now, c.window)
}

// RecordAlertWithin 记录告警，window 决定 Redis 记录的过期时间
func (c *LowStockCooldown) RecordAlertWithin(ctx context.Context, vendorID, productID uint, now time.Time, window time.Duration) error {
	return c.store.SaveAlertedAt(ctx, vendorID, productID, now, c.resolveWindow(window))
}

// gormCooldownStore 基于 low_stock_alerts 表
type gormCooldownStore struct {
	repo repository.LowStockAlertRepository
}

// NewGormCooldownStore 数据库存储，默认使用
func NewGormCooldownStore(repo repository.LowStockAlertRepository) CooldownStore {
	return &gormCooldownStore{repo: repo}
}

func (s *gormCooldownStore) LastAlertedAt(ctx context.Context, vendorID, productID uint) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	row, err := s.repo.Get(vendorID, productID)
	if err != nil {
		return time.Time{}, false, err
	}
	if row == nil {
		return time.Time{}, false, nil
	}
	return row.LastAlertedAt, true, nil
}

func (s *gormCooldownStore) SaveAlertedAt(ctx context.Context, vendorID, productID uint, at time.Time, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.repo.Touch(vendorID, productID, at)
}

// NewRedisCooldownStore Redis 存储，多实例共享
func NewRedisCooldownStore(client *redis.Client) CooldownStore {
	return cache.NewCooldownStore(client)
}

type cooldownKey struct {
	vendorID  uint
	productID uint
}

// memoryCooldownStore 进程内存储，用于测试与无数据库的场景
type memoryCooldownStore struct {
	mu   sync.RWMutex
	last map[cooldownKey]time.Time
}

// NewMemoryCooldownStore 创建内存存储
func NewMemoryCooldownStore() CooldownStore {
	return &memoryCooldownStore{last: make(map[cooldownKey]time.Time)}
}

func (s *memoryCooldownStore) LastAlertedAt(_ context.Context, vendorID, productID uint) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.last[cooldownKey{vendorID, productID}]
	return at, ok, nil
}

func (s *memoryCooldownStore) SaveAlertedAt(_ context.Context, vendorID, productID uint, at time.Time, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[cooldownKey{vendorID, productID}] = at
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vendora/internal/cache"

	"github.com/redis/go-redis/v9"
)

// VendorLocker 按商户串行化提现余额相关操作
type VendorLocker interface {
	// Lock 阻塞直到拿到锁或 ctx 结束，返回释放函数
	Lock(ctx context.Context, vendorID uint) (func(), error)
}

// keyedMutex 进程内按商户加锁，单实例部署使用
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*vendorLockEntry
}

type vendorLockEntry struct {
	ch   chan struct{}
	refs int
}

// NewLocalVendorLocker 创建进程内商户锁
func NewLocalVendorLocker() VendorLocker {
	return &keyedMutex{locks: make(map[uint]*vendorLockEntry)}
}

func (k *keyedMutex) Lock(ctx context.Context, vendorID uint) (func(), error) {
	k.mu.Lock()
	entry, ok := k.locks[vendorID]
	if !ok {
		entry = &vendorLockEntry{ch: make(chan struct{}, 1)}
		k.locks[vendorID] = entry
	}
	entry.refs++
	k.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(vendorID, entry, false)
		return nil, fmt.Errorf("%w: %v", ErrPayoutBusy, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { k.release(vendorID, entry, true) })
	}, nil
}

func (k *keyedMutex) release(vendorID uint, entry *vendorLockEntry, held bool) {
	if held {
		<-entry.ch
	}
	k.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, vendorID)
	}
	k.mu.Unlock()
}

// redisVendorLocker 多实例部署时通过 Redis 加锁
type redisVendorLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisVendorLocker 创建 Redis 商户锁，wait 为最长等待时间
func NewRedisVendorLocker(client *redis.Client, ttl, wait time.Duration) VendorLocker {
	if wait <= 0 {
		wait = ttl
	}
	return &redisVendorLocker{client: client, ttl: ttl, wait: wait}
}

func (r *redisVendorLocker) Lock(ctx context.Context, vendorID uint) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()
	release, err := cache.NewLock(r.client, fmt.Sprintf("payout:vendor:%d", vendorID), r.ttl).Acquire(waitCtx)
	if err != nil {
		if errors.Is(err, cache.ErrLockTimeout) {
			return nil, ErrPayoutBusy
		}
		return nil, err
	}
	return release, nil
}

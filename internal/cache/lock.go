package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout 等待锁超时
var ErrLockTimeout = errors.New("redis lock wait timeout")

const lockPollInterval = 25 * time.Millisecond

// 仅持有者可释放
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// 仅持有者可续期
var extendLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Lock 基于 SET NX PX 的互斥锁，持有期间自动续期
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewLock 创建锁，key 会加上全局前缀
func NewLock(client *redis.Client, key string, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &Lock{client: client, key: BuildKey("lock:" + key), ttl: ttl}
}

// Acquire 阻塞直到拿到锁或 ctx 结束，返回释放函数
func (l *Lock) Acquire(ctx context.Context) (func(), error) {
	if l == nil || l.client == nil {
		return func() {}, nil
	}
	token := uuid.NewString()
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", l.key, err)
		}
		if ok {
			return l.hold(token), nil
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}
}

// hold 每 ttl/3 续期一次，返回的释放函数停止续期并删除键，可重复调用
func (l *Lock) hold(token string) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	interval := l.ttl / 3
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			held, err := extendLockScript.Run(ctx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int()
			cancel()
			if err == nil && held == 0 {
				// 键已过期或被他人持有，不再续期
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			// 释放使用独立 ctx，请求 ctx 已取消时仍需归还
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseLockScript.Run(releaseCtx, l.client, []string{l.key}, token).Err()
		})
	}
}

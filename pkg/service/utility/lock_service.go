/*
 * @Description: 定时任务互斥锁
 * @Author: 安知鱼
 * @Date: 2025-07-14 01:41:43
 * @LastEditTime: 2025-10-23 09:42:17
 * @LastEditors: 安知鱼
 */
package utility

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// JobLocker 提供了一个基于字符串键的非阻塞锁。
// 多个实例共用同一个 Redis 时，同名任务同一时刻只会在一个实例上执行。
type JobLocker interface {
	// TryLock 尝试获取 key 对应的锁，ttl 到期后锁自动失效。
	// 锁已被占用时返回 ok=false，不阻塞等待。
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// releaseScript 只删除仍由自己持有的锁，避免误删过期后被别人拿到的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisJobLocker struct {
	client *redis.Client
}

// NewRedisJobLocker 是 redisJobLocker 的构造函数
func NewRedisJobLocker(client *redis.Client) JobLocker {
	return &redisJobLocker{client: client}
}

func (l *redisJobLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// 释放时任务的 ctx 可能已取消，使用独立的 ctx
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			log.Printf("释放任务锁 %s 失败: %v", key, err)
		}
	}
	return release, true, nil
}

// memoryJobLocker 是单实例部署下的实现，只在当前进程内互斥
type memoryJobLocker struct {
	mu    sync.Mutex
	locks map[string]string
	until map[string]time.Time
}

// NewMemoryJobLocker 创建一个进程内的 JobLocker
func NewMemoryJobLocker() JobLocker {
	return &memoryJobLocker{
		locks: make(map[string]string),
		until: make(map[string]time.Time),
	}
}

func (l *memoryJobLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expireAt, held := l.until[key]; held && time.Now().Before(expireAt) {
		return nil, false, nil
	}
	token := uuid.NewString()
	l.locks[key] = token
	l.until[key] = time.Now().Add(ttl)

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.locks[key] == token {
			delete(l.locks, key)
			delete(l.until, key)
		}
	}
	return release, true, nil
}

// NewJobLockerWithFallback 有 Redis 时使用分布式锁，否则退化为进程内锁
func NewJobLockerWithFallback(client *redis.Client) JobLocker {
	if client == nil {
		return NewMemoryJobLocker()
	}
	return NewRedisJobLocker(client)
}

/*
 * @Description: 排行榜工厂，自动选择 Redis 或内存实现
 * @Author: 安知鱼
 * @Date: 2025-10-05 00:00:00
 * @LastEditTime: 2025-10-22 10:46:12
 * @LastEditors: 安知鱼
 */
package ranking

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// Type 排行榜实现类型
type Type string

const (
	TypeRedis  Type = "redis"
	TypeMemory Type = "memory"
)

// NewWithFallback 创建带有自动降级功能的排行榜服务
// 如果 redisClient 为 nil 或不可用，自动降级到内存实现
func NewWithFallback(ctx context.Context, redisClient *redis.Client) Service {
	if redisClient == nil {
		log.Println("🔄 使用内存排行榜（Memory Ranking）")
		return NewMemoryRanking()
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis 不可用: %v，降级到内存排行榜", err)
		return NewMemoryRanking()
	}

	log.Println("✅ 使用 Redis 排行榜")
	return NewRedisRanking(redisClient, DefaultKey)
}

// TypeOf 获取当前使用的排行榜实现类型
func TypeOf(svc Service) Type {
	if _, ok := svc.(*redisRanking); ok {
		return TypeRedis
	}
	return TypeMemory
}

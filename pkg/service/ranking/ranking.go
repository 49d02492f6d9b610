/*
 * @Description: 文章点赞排行榜（Redis ZSET 实现）
 * @Author: 安知鱼
 * @Date: 2025-06-20 15:17:47
 * @LastEditTime: 2025-10-22 10:41:06
 * @LastEditors: 安知鱼
 */
package ranking

import (
	"context"
	"strconv"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"

	"github.com/redis/go-redis/v9"
)

// DefaultKey 是排行榜在 Redis 中的 ZSET 键
const DefaultKey = "rank:article:upvotes"

// DefaultLimit 是未指定数量时返回的条目数
const DefaultLimit = 10

// MaxLimit 是单次查询允许的最大条目数
const MaxLimit = 100

// Service 定义了点赞排行榜的接口。分数即文章当前的 upvotes。
type Service interface {
	// Set 写入文章的当前点赞数
	Set(ctx context.Context, articleID uint, upvotes int) error
	// Remove 从排行榜中移除文章
	Remove(ctx context.Context, articleIDs ...uint) error
	// Top 按点赞数降序返回前 limit 条，点赞数相同时 ID 小的在前
	Top(ctx context.Context, limit int) ([]model.RankingItem, error)
	// Rebuild 清空排行榜并用给定数据重建
	Rebuild(ctx context.Context, items []model.RankingItem) error
}

// redisRanking 是 Service 的 Redis 实现
type redisRanking struct {
	client *redis.Client
	key    string
}

// NewRedisRanking 是 redisRanking 的构造函数，通过依赖注入接收 Redis 客户端
func NewRedisRanking(client *redis.Client, key string) Service {
	if key == "" {
		key = DefaultKey
	}
	return &redisRanking{client: client, key: key}
}

func member(articleID uint) string {
	return strconv.FormatUint(uint64(articleID), 10)
}

func (s *redisRanking) Set(ctx context.Context, articleID uint, upvotes int) error {
	return s.client.ZAdd(ctx, s.key, redis.Z{Score: float64(upvotes), Member: member(articleID)}).Err()
}

func (s *redisRanking) Remove(ctx context.Context, articleIDs ...uint) error {
	if len(articleIDs) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(articleIDs))
	for _, id := range articleIDs {
		members = append(members, member(id))
	}
	return s.client.ZRem(ctx, s.key, members...).Err()
}

// Top 取出的结果在分数相同时按成员字典序倒序，需要再按 ID 升序整理一次
func (s *redisRanking) Top(ctx context.Context, limit int) ([]model.RankingItem, error) {
	limit = normalizeLimit(limit)
	zs, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]model.RankingItem, 0, len(zs))
	for _, z := range zs {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		items = append(items, model.RankingItem{ArticleID: uint(id), Upvotes: int(z.Score)})
	}
	sortItems(items)
	return items, nil
}

// Rebuild 使用 Pipeline 在一个 MULTI 中删除并重建 ZSET
func (s *redisRanking) Rebuild(ctx context.Context, items []model.RankingItem) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(items) == 0 {
			return nil
		}
		zs := make([]redis.Z, 0, len(items))
		for _, item := range items {
			zs = append(zs, redis.Z{Score: float64(item.Upvotes), Member: member(item.ArticleID)})
		}
		pipe.ZAdd(ctx, s.key, zs...)
		return nil
	})
	return err
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

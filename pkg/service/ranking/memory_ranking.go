/*
 * @Description: 内存排行榜实现（用于 Redis 不可用时的降级方案）
 * @Author: 安知鱼
 * @Date: 2025-10-05 00:00:00
 * @LastEditTime: 2025-10-22 10:44:30
 * @LastEditors: 安知鱼
 */
package ranking

import (
	"context"
	"sort"
	"sync"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
)

// memoryRanking 是基于内存的排行榜实现，仅在单实例部署下有意义
type memoryRanking struct {
	mu     sync.RWMutex
	scores map[uint]int
}

// NewMemoryRanking 创建内存排行榜实例
func NewMemoryRanking() Service {
	return &memoryRanking{scores: make(map[uint]int)}
}

func (s *memoryRanking) Set(_ context.Context, articleID uint, upvotes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[articleID] = upvotes
	return nil
}

func (s *memoryRanking) Remove(_ context.Context, articleIDs ...uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range articleIDs {
		delete(s.scores, id)
	}
	return nil
}

func (s *memoryRanking) Top(_ context.Context, limit int) ([]model.RankingItem, error) {
	limit = normalizeLimit(limit)

	s.mu.RLock()
	items := make([]model.RankingItem, 0, len(s.scores))
	for id, upvotes := range s.scores {
		items = append(items, model.RankingItem{ArticleID: id, Upvotes: upvotes})
	}
	s.mu.RUnlock()

	sortItems(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *memoryRanking) Rebuild(_ context.Context, items []model.RankingItem) error {
	scores := make(map[uint]int, len(items))
	for _, item := range items {
		scores[item.ArticleID] = item.Upvotes
	}
	s.mu.Lock()
	s.scores = scores
	s.mu.Unlock()
	return nil
}

// sortItems 按点赞数降序、文章 ID 升序排序
func sortItems(items []model.RankingItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Upvotes != items[j].Upvotes {
			return items[i].Upvotes > items[j].Upvotes
		}
		return items[i].ArticleID < items[j].ArticleID
	})
}

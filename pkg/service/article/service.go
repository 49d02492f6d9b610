/*
 * @Description: 文章的投票与批量删除
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:20:03
 * @LastEditTime: 2025-10-21 15:48:32
 * @LastEditors: 安知鱼
 */
package article

import (
	"context"
	"fmt"
	"log"

	"github.com/anzhiyu-c/anheyu-press/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-press/pkg/constant"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
	"github.com/anzhiyu-c/anheyu-press/pkg/service/utility"
)

// Service 封装了文章相关的一致性操作，每个公开方法都在单个事务中完成。
type Service struct {
	txManager repository.TransactionManager
	publisher event.Publisher
}

// NewService 是文章 Service 的构造函数。publisher 可以为 nil。
func NewService(txManager repository.TransactionManager, publisher event.Publisher) *Service {
	return &Service{txManager: txManager, publisher: publisher}
}

func (s *Service) publish(topic event.Topic, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(topic, payload)
	}
}

func articleResource(id uint) string {
	return fmt.Sprintf("文章 %d", id)
}

// Get 读取单篇文章
func (s *Service) Get(ctx context.Context, id uint) (*model.Article, error) {
	var article *model.Article
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		a, err := repos.Article.GetByID(ctx, id)
		if err != nil {
			return utility.TranslateStoreError(err, articleResource(id))
		}
		article = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

// Upvote 把文章的赞数加 1，不做存在性预检查。
// 文章不存在时由存储层报告，翻译为 constant.ErrNotFound。
func (s *Service) Upvote(ctx context.Context, id uint) (*model.Article, error) {
	var article *model.Article
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		if err := repos.Article.AddUpvotes(ctx, id, 1); err != nil {
			return utility.TranslateStoreError(err, articleResource(id))
		}
		a, err := repos.Article.GetByID(ctx, id)
		if err != nil {
			return utility.TranslateStoreError(err, articleResource(id))
		}
		article = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(event.ArticleVoted, &model.ArticleVotedEvent{ArticleID: id, Upvotes: article.Upvotes, Delta: 1})
	return article, nil
}

// Downvote 先读取文章，赞数不大于 0 时拒绝，否则减 1。
func (s *Service) Downvote(ctx context.Context, id uint) (*model.Article, error) {
	var article *model.Article
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		a, err := repos.Article.GetByID(ctx, id)
		if err != nil {
			return utility.TranslateStoreError(err, articleResource(id))
		}
		if a.Upvotes <= 0 {
			return fmt.Errorf("%w: 文章 %d", constant.ErrUpvotesExhausted, id)
		}
		if err := repos.Article.AddUpvotes(ctx, id, -1); err != nil {
			// 预读之后赞数被并发请求减到 0，同样属于校验失败
			if repository.IsNotFound(err) {
				return fmt.Errorf("%w: 文章 %d", constant.ErrUpvotesExhausted, id)
			}
			return utility.TranslateStoreError(err, articleResource(id))
		}
		// 并发点赞/踩时预读的值可能已过期，返回更新后的最新状态
		updated, err := repos.Article.GetByID(ctx, id)
		if err != nil {
			return utility.TranslateStoreError(err, articleResource(id))
		}
		article = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(event.ArticleVoted, &model.ArticleVotedEvent{ArticleID: id, Upvotes: article.Upvotes, Delta: -1})
	return article, nil
}

// DeleteArticles 删除给定的全部文章，实际删除数与 ids 长度不一致时整体回滚并返回 constant.ErrNotFound。
// 重复的 ID 只会删除一行，因此同样视为不一致。空列表直接成功。
func (s *Service) DeleteArticles(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	unique := uniqueIDs(ids)

	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		deleted, err := repos.Article.DeleteByIDs(ctx, unique)
		if err != nil {
			return utility.TranslateStoreError(err, "文章")
		}
		if deleted != len(ids) {
			return fmt.Errorf("%w: 请求删除 %d 篇文章，实际删除 %d 篇", constant.ErrNotFound, len(ids), deleted)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[文章] 批量删除 %d 篇文章: %v", len(unique), unique)
	s.publish(event.ArticlesDeleted, &model.ArticlesDeletedEvent{ArticleIDs: unique, Reason: model.DeleteReasonBatch})
	return nil
}

// DeleteArticlesBelowUpvoteThreshold 删除所有 upvotes < threshold 的文章。
// 一篇都没有时返回 constant.ErrNoMatchingArticles（属于 constant.ErrBadRequest），不做任何修改。
func (s *Service) DeleteArticlesBelowUpvoteThreshold(ctx context.Context, threshold int) (*model.DeleteResult, error) {
	var ids []uint
	result := &model.DeleteResult{}
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		var err error
		ids, err = repos.Article.FindIDsBelowUpvotes(ctx, threshold)
		if err != nil {
			return utility.TranslateStoreError(err, "文章")
		}
		if len(ids) == 0 {
			return fmt.Errorf("%w（赞数低于 %d）", constant.ErrNoMatchingArticles, threshold)
		}
		deleted, err := repos.Article.DeleteByIDs(ctx, ids)
		if err != nil {
			return utility.TranslateStoreError(err, "文章")
		}
		result.DeletedCount = deleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[文章] 删除了 %d 篇赞数低于 %d 的文章", result.DeletedCount, threshold)
	s.publish(event.ArticlesDeleted, &model.ArticlesDeletedEvent{ArticleIDs: ids, Reason: model.DeleteReasonLowUpvotes})
	return result, nil
}

// RankingSnapshot 从数据库读取点赞排行，limit 不大于 0 时返回全部文章
func (s *Service) RankingSnapshot(ctx context.Context, limit int) ([]model.RankingItem, error) {
	var items []model.RankingItem
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		var err error
		items, err = repos.Article.TopByUpvotes(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// uniqueIDs 去重并保持首次出现的顺序
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

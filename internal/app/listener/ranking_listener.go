/*
 * @Description: 监听点赞与删除事件，维护点赞排行榜
 * @Author: 安知鱼
 * @Date: 2025-07-18 17:30:00
 * @LastEditTime: 2025-10-22 15:02:44
 * @LastEditors: 安知鱼
 */
package listener

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/anzhiyu-c/anheyu-press/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-press/pkg/constant"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/service/ranking"
)

// ArticleReader 用于在处理事件时读取文章的最新状态
type ArticleReader interface {
	Get(ctx context.Context, id uint) (*model.Article, error)
}

// RankingListener 把点赞和删除同步到排行榜。
// 事件可能被多个 worker 乱序处理，因此点赞时总是回读文章的当前赞数，而不是使用事件中的值。
type RankingListener struct {
	articles ArticleReader
	ranking  ranking.Service
	timeout  time.Duration
}

// NewRankingListener 是 RankingListener 的构造函数，并完成事件订阅。
func NewRankingListener(eventBus *event.EventBus, articles ArticleReader, rankingSvc ranking.Service) *RankingListener {
	l := &RankingListener{articles: articles, ranking: rankingSvc, timeout: 5 * time.Second}
	eventBus.Subscribe(event.ArticleVoted, l.handleArticleVoted)
	eventBus.Subscribe(event.ArticlesDeleted, l.handleArticlesDeleted)
	return l
}

func (l *RankingListener) handleArticleVoted(payload interface{}) {
	e, ok := payload.(*model.ArticleVotedEvent)
	if !ok {
		log.Printf("[RankingListener] 错误：收到的 ArticleVoted 事件负载类型不正确: %T", payload)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	article, err := l.articles.Get(ctx, e.ArticleID)
	if errors.Is(err, constant.ErrNotFound) {
		// 点赞之后文章已被删除
		if err := l.ranking.Remove(ctx, e.ArticleID); err != nil {
			log.Printf("[RankingListener] 从排行榜移除文章 %d 失败: %v", e.ArticleID, err)
		}
		return
	}
	if err != nil {
		log.Printf("[RankingListener] 读取文章 %d 失败: %v", e.ArticleID, err)
		return
	}

	if err := l.ranking.Set(ctx, article.ID, article.Upvotes); err != nil {
		log.Printf("[RankingListener] 更新文章 %d 的排行分数失败: %v", article.ID, err)
	}
}

func (l *RankingListener) handleArticlesDeleted(payload interface{}) {
	e, ok := payload.(*model.ArticlesDeletedEvent)
	if !ok {
		log.Printf("[RankingListener] 错误：收到的 ArticlesDeleted 事件负载类型不正确: %T", payload)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	if err := l.ranking.Remove(ctx, e.ArticleIDs...); err != nil {
		log.Printf("[RankingListener] 从排行榜移除 %d 篇文章失败: %v", len(e.ArticleIDs), err)
	}
}

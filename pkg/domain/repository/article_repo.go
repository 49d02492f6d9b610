/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-25 10:55:12
 * @LastEditTime: 2025-10-21 11:52:19
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
)

// ArticleRepository 定义了文章的数据仓库接口。
type ArticleRepository interface {
	// Create 创建文章并建立与分类的关联
	Create(ctx context.Context, params *model.CreateArticleParams) (*model.Article, error)

	// GetByID 读取单篇文章及其分类 ID，不存在时返回 ErrRecordNotFound
	GetByID(ctx context.Context, id uint) (*model.Article, error)

	// FindIDsByAuthor 返回某个作者的全部文章 ID，按 ID 升序
	FindIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)

	// FindIDsBelowUpvotes 返回 upvotes 严格小于 threshold 的文章 ID。
	// 在支持行锁的数据库上会锁定读取到的行，直到事务结束。
	FindIDsBelowUpvotes(ctx context.Context, threshold int) ([]uint, error)

	// ReassignAuthor 把 fromAuthorID 的全部文章转给 toAuthorID，返回受影响的行数
	ReassignAuthor(ctx context.Context, fromAuthorID, toAuthorID uint) (int, error)

	// DeleteByIDs 删除给定 ID 的文章（先解除分类关联），返回实际删除的行数
	DeleteByIDs(ctx context.Context, ids []uint) (int, error)

	// AddUpvotes 原子地把 upvotes 加上 delta。
	// 文章不存在，或 delta 为负且会使 upvotes 小于 0 时，返回 ErrRecordNotFound。
	AddUpvotes(ctx context.Context, id uint, delta int) error

	// TopByUpvotes 按 upvotes 降序、ID 升序返回排行数据，limit 不大于 0 时返回全部
	TopByUpvotes(ctx context.Context, limit int) ([]model.RankingItem, error)

	// Count 统计文章总数
	Count(ctx context.Context) (int64, error)
}

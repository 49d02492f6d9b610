/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:51:57
 * @LastEditTime: 2025-10-21 11:58:40
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
)

// CategoryRepository 定义了文章分类的数据仓库接口。
type CategoryRepository interface {
	Create(ctx context.Context, name string) (*model.Category, error)

	// ListOrderByID 返回全部分类，按 ID 升序，不填充 ArticleIDs
	ListOrderByID(ctx context.Context) ([]*model.Category, error)

	// GetByID 读取分类及其关联的文章 ID，不存在时返回 ErrRecordNotFound
	GetByID(ctx context.Context, id uint) (*model.Category, error)

	// ArticleIDs 返回与分类关联的全部文章 ID，按 ID 升序
	ArticleIDs(ctx context.Context, categoryID uint) ([]uint, error)

	// ReplaceArticleLink 把文章与 fromID 的关联替换为与 toID 的关联。
	// 文章已经关联 toID 时只移除旧关联，不会产生重复关联。
	ReplaceArticleLink(ctx context.Context, articleID, fromID, toID uint) error

	// Delete 删除分类（先解除全部文章关联），不存在时返回 ErrRecordNotFound
	Delete(ctx context.Context, id uint) error

	// Count 统计分类总数
	Count(ctx context.Context) (int64, error)
}

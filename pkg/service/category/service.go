/*
 * @Description: 分类合并与级联删除
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:50:43
 * @LastEditTime: 2025-10-21 16:10:55
 * @LastEditors: 安知鱼
 */
package category

import (
	"context"
	"fmt"
	"log"

	"github.com/anzhiyu-c/anheyu-press/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
	"github.com/anzhiyu-c/anheyu-press/pkg/service/utility"
)

// Service 封装了文章分类的一致性操作。
type Service struct {
	txManager repository.TransactionManager
	publisher event.Publisher
}

// NewService 是分类 Service 的构造函数。publisher 可以为 nil。
func NewService(txManager repository.TransactionManager, publisher event.Publisher) *Service {
	return &Service{txManager: txManager, publisher: publisher}
}

func (s *Service) publish(topic event.Topic, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(topic, payload)
	}
}

func categoryResource(id uint) string {
	return fmt.Sprintf("分类 %d", id)
}

// Get 读取分类及其关联的文章 ID
func (s *Service) Get(ctx context.Context, id uint) (*model.Category, error) {
	var category *model.Category
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		c, err := repos.Category.GetByID(ctx, id)
		if err != nil {
			return utility.TranslateStoreError(err, categoryResource(id))
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// GroupDuplicates 按名称对已按 ID 升序排列的分类分组，只返回成员多于一个的组。
// 每组中 ID 最小的分类是保留者，组的顺序与保留者的顺序一致。
func GroupDuplicates(categories []*model.Category) []model.MergeGroup {
	index := make(map[string]int)
	var groups []model.MergeGroup
	for _, c := range categories {
		i, ok := index[c.Name]
		if !ok {
			index[c.Name] = len(groups)
			groups = append(groups, model.MergeGroup{Name: c.Name, SurvivorID: c.ID})
			continue
		}
		g := &groups[i]
		// 输入未排序时仍保证最小 ID 胜出
		if c.ID < g.SurvivorID {
			g.DuplicateIDs = append(g.DuplicateIDs, g.SurvivorID)
			g.SurvivorID = c.ID
			continue
		}
		g.DuplicateIDs = append(g.DuplicateIDs, c.ID)
	}

	duplicates := groups[:0]
	for _, g := range groups {
		if len(g.DuplicateIDs) > 0 {
			duplicates = append(duplicates, g)
		}
	}
	return duplicates
}

// MergeCategories 合并全部同名分类：ID 最小者保留，其余分类的文章关联被转移到保留者后删除。
// 整个过程在一个事务中完成；没有同名分类时不执行任何写操作。
func (s *Service) MergeCategories(ctx context.Context) (*model.MergeReport, error) {
	report := &model.MergeReport{}
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		categories, err := repos.Category.ListOrderByID(ctx)
		if err != nil {
			return utility.TranslateStoreError(err, "分类")
		}

		report.Groups = GroupDuplicates(categories)
		report.RelinkedArticles = 0
		for _, group := range report.Groups {
			for _, duplicateID := range group.DuplicateIDs {
				articleIDs, err := repos.Category.ArticleIDs(ctx, duplicateID)
				if err != nil {
					return utility.TranslateStoreError(err, categoryResource(duplicateID))
				}
				for _, articleID := range articleIDs {
					if err := repos.Category.ReplaceArticleLink(ctx, articleID, duplicateID, group.SurvivorID); err != nil {
						return utility.TranslateStoreError(err, fmt.Sprintf("文章 %d 的分类关联", articleID))
					}
					report.RelinkedArticles++
				}
				if err := repos.Category.Delete(ctx, duplicateID); err != nil {
					return utility.TranslateStoreError(err, categoryResource(duplicateID))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(report.Groups) == 0 {
		return report, nil
	}
	log.Printf("[分类] 合并了 %d 组同名分类，删除分类 %v，转移文章关联 %d 条",
		len(report.Groups), report.RemovedIDs(), report.RelinkedArticles)
	s.publish(event.CategoriesMerged, report)
	return report, nil
}

// DeleteCategoryWithArticles 删除分类以及与之关联的全部文章（文章本身被删除，而不仅是解除关联）。
func (s *Service) DeleteCategoryWithArticles(ctx context.Context, id uint) error {
	var articleIDs []uint
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		category, err := repos.Category.GetByID(ctx, id)
		if err != nil {
			return utility.TranslateStoreError(err, categoryResource(id))
		}
		articleIDs = category.ArticleIDs

		if _, err := repos.Article.DeleteByIDs(ctx, articleIDs); err != nil {
			return utility.TranslateStoreError(err, "文章")
		}
		if err := repos.Category.Delete(ctx, id); err != nil {
			return utility.TranslateStoreError(err, categoryResource(id))
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[分类] 删除分类 %d 及其 %d 篇文章", id, len(articleIDs))
	s.publish(event.CategoryDeleted, &model.CategoryDeletedEvent{CategoryID: id, ArticleIDs: articleIDs})
	if len(articleIDs) > 0 {
		s.publish(event.ArticlesDeleted, &model.ArticlesDeletedEvent{ArticleIDs: articleIDs, Reason: model.DeleteReasonCategory})
	}
	return nil
}

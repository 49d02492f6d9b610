/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:43:47
 * @LastEditTime: 2025-10-21 11:31:05
 * @LastEditors: 安知鱼
 */
package model

// --- 核心领域对象 (Domain Object) ---

// Category 是文章分类的核心领域模型。
// 名称在存储层不要求唯一，因此可能出现同名分类，由合并流程收敛。
type Category struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ArticleIDs []uint `json:"article_ids,omitempty"`
}

// MergeGroup 描述一组同名分类的合并结果
type MergeGroup struct {
	Name         string `json:"name"`
	SurvivorID   uint   `json:"survivor_id"`
	DuplicateIDs []uint `json:"duplicate_ids"`
}

// MergeReport 是一次分类合并的汇总信息，没有重复分类时 Groups 为空
type MergeReport struct {
	Groups           []MergeGroup `json:"groups"`
	RelinkedArticles int          `json:"relinked_articles"`
}

// RemovedIDs 返回本次合并删除的全部分类 ID
func (r *MergeReport) RemovedIDs() []uint {
	var ids []uint
	for _, g := range r.Groups {
		ids = append(ids, g.DuplicateIDs...)
	}
	return ids
}

// CategoryDeletedEvent 在分类级联删除提交后发布
type CategoryDeletedEvent struct {
	CategoryID uint   `json:"category_id"`
	ArticleIDs []uint `json:"article_ids"`
}

/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-25 10:47:59
 * @LastEditTime: 2025-10-21 11:26:48
 * @LastEditors: 安知鱼
 */
package model

// --- 核心领域对象 (Domain Object) ---

// Article 是文章的核心领域模型，业务逻辑（Service层）围绕它进行。
type Article struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Upvotes  int    `json:"upvotes"` // 点赞数，任何时候都不能为负
	AuthorID uint   `json:"author_id"`
	// CategoryIDs 仅在按 ID 读取单篇文章时填充
	CategoryIDs []uint `json:"category_ids,omitempty"`
}

// CreateArticleParams 定义了仓储层创建文章所需的参数
type CreateArticleParams struct {
	Title       string
	Content     string
	Upvotes     int
	AuthorID    uint
	CategoryIDs []uint
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// DeleteArticlesRequest 定义了批量删除文章的请求体
type DeleteArticlesRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// DeleteResult 定义了按阈值批量删除后的返回结构
type DeleteResult struct {
	DeletedCount int `json:"deletedCount"`
}

// RankingItem 定义了点赞排行榜中的单个条目
type RankingItem struct {
	ArticleID uint `json:"article_id"`
	Upvotes   int  `json:"upvotes"`
}

// --- 领域事件载荷 ---

// ArticleVotedEvent 在点赞/踩事务提交后发布，Upvotes 为变更后的值
type ArticleVotedEvent struct {
	ArticleID uint `json:"article_id"`
	Upvotes   int  `json:"upvotes"`
	Delta     int  `json:"delta"`
}

// ArticlesDeletedEvent 在任意一种文章批量删除提交后发布
type ArticlesDeletedEvent struct {
	ArticleIDs []uint `json:"article_ids"`
	Reason     string `json:"reason"`
}

// 文章删除原因
const (
	DeleteReasonBatch        = "batch"
	DeleteReasonLowUpvotes   = "low_upvotes"
	DeleteReasonCategory     = "category_cascade"
	DeleteReasonAuthorDelete = "author_deleted"
)

/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-15 11:30:55
 * @LastEditTime: 2025-10-21 11:20:14
 * @LastEditors: 安知鱼
 */
package model

// ========= 领域模型定义 =========

// User 是用户的核心领域模型。
// 一个用户可以拥有零到多篇文章，文章通过 author_id 引用用户。
type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// --- API 数据传输对象 ---

// DeleteUserResponse 定义了删除账号后的响应结构，返回被删除用户删除前的身份信息
type DeleteUserResponse struct {
	User        *User `json:"user"`
	NewAuthorID *uint `json:"new_author_id,omitempty"`
}

// UserDeletedEvent 在用户删除事务提交后发布
type UserDeletedEvent struct {
	User               User   `json:"user"`
	NewAuthorID        *uint  `json:"new_author_id,omitempty"`
	AffectedArticleIDs []uint `json:"affected_article_ids"`
}

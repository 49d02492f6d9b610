/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-20 13:07:24
 * @LastEditTime: 2025-10-21 11:44:31
 * @LastEditors: 安知鱼
 */
package repository

import (
	"context"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
)

// UserRepository 定义了所有用户数据操作的契约。
type UserRepository interface {
	// Create 创建用户，成功后回填 ID
	Create(ctx context.Context, user *model.User) error

	// FindByID 根据用户id查找用户，不存在时返回 ErrRecordNotFound
	FindByID(ctx context.Context, id uint) (*model.User, error)

	// Delete 删除用户并返回其删除前的数据，不存在时返回 ErrRecordNotFound
	Delete(ctx context.Context, id uint) (*model.User, error)

	// Count 统计用户总数
	Count(ctx context.Context) (int64, error)
}

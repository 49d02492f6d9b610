/*
 * @Description: 把仓储层错误翻译为业务错误
 * @Author: 安知鱼
 * @Date: 2025-10-21 15:20:11
 * @LastEditTime: 2025-10-21 15:20:11
 * @LastEditors: 安知鱼
 */
package utility

import (
	"fmt"

	"github.com/anzhiyu-c/anheyu-press/pkg/constant"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

// TranslateStoreError 在事务函数内部调用，使回滚发生在分类后的错误返回给调用方之前。
//
//   - 记录不存在、外键引用的行不存在 => constant.ErrNotFound
//   - 唯一、检查、非空约束冲突 => constant.ErrBadRequest
//   - 其他错误原样返回
//
// 翻译后的错误仍然包裹原始错误，errors.Is/As 对两者都有效。
func TranslateStoreError(err error, resource string) error {
	if err == nil {
		return nil
	}
	switch {
	case repository.IsNotFound(err), repository.IsConstraint(err, repository.ConstraintForeignKey):
		return fmt.Errorf("%w: %s: %w", constant.ErrNotFound, resource, err)
	case repository.IsConstraint(err, repository.ConstraintUnique),
		repository.IsConstraint(err, repository.ConstraintCheck),
		repository.IsConstraint(err, repository.ConstraintNotNull):
		return fmt.Errorf("%w: %s: %w", constant.ErrBadRequest, resource, err)
	default:
		return err
	}
}

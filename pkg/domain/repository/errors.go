/*
 * @Description: 仓储层的结构化错误
 * @Author: 安知鱼
 * @Date: 2025-10-21 11:40:02
 * @LastEditTime: 2025-10-21 11:40:02
 * @LastEditors: 安知鱼
 */
package repository

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound 表示目标记录在存储中不存在。
// 仓储实现必须把驱动层的 "no rows" 以及 0 行受影响的单行写操作转换为它。
var ErrRecordNotFound = errors.New("record not found")

// ConstraintKind 标识被违反的约束类型
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintNotNull    ConstraintKind = "not_null"
)

// ConstraintError 表示存储层因约束拒绝了一次写入，Err 保留驱动的原始错误。
type ConstraintError struct {
	Kind ConstraintKind
	Err  error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsNotFound 判断错误链中是否包含 ErrRecordNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// IsConstraint 判断错误链中是否包含指定类型的约束错误
func IsConstraint(err error, kind ConstraintKind) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Kind == kind
}

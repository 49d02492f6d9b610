/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-13 23:40:12
 * @LastEditTime: 2025-10-21 15:03:26
 * @LastEditors: 安知鱼
 */
package ent

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

// entTransactionManager 是基于 ent dialect 驱动的事务管理器实现。
type entTransactionManager struct {
	drv dialect.Driver
}

// NewEntTransactionManager 是 entTransactionManager 的构造函数。
func NewEntTransactionManager(drv dialect.Driver) repository.TransactionManager {
	return &entTransactionManager{drv: drv}
}

// NewRepositories 返回不在事务中的仓储集合，用于只读查询和测试数据准备。
func NewRepositories(drv dialect.Driver) repository.Repositories {
	return newRepositories(drv, drv.Dialect())
}

func newRepositories(ex dialect.ExecQuerier, dialectName string) repository.Repositories {
	return repository.Repositories{
		User:     NewEntUserRepository(ex, dialectName),
		Article:  NewArticleRepo(ex, dialectName),
		Category: NewCategoryRepo(ex, dialectName),
	}
}

// Do 实现了 TransactionManager 接口。
// 它会开启一个事务，并将 Repositories 结构体中定义的所有仓库包裹在这个事务中。
func (tm *entTransactionManager) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := tm.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}

	// 使用 defer 来确保 panic 时事务被回滚
	defer func() {
		if v := recover(); v != nil {
			tx.Rollback()
			panic(v)
		}
	}()

	repos := newRepositories(tx, tm.drv.Dialect())

	// 执行业务逻辑
	if err := fn(repos); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("事务执行失败: %w, 回滚事务也失败: %v", err, rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

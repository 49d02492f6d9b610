/*
 * @Description: 仓储共用的 SQL 执行辅助
 * @Author: 安知鱼
 * @Date: 2025-10-21 13:40:18
 * @LastEditTime: 2025-10-21 13:40:18
 * @LastEditors: 安知鱼
 */
package ent

import (
	"context"
	"database/sql"
	"errors"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

// conn 封装了一个可执行 SQL 的句柄（驱动或事务）以及它的方言。
// 所有仓储都通过它构造语句并执行，事务内外的代码路径完全一致。
type conn struct {
	ex      dialect.ExecQuerier
	dialect string
}

func newConn(ex dialect.ExecQuerier, dialectName string) conn {
	return conn{ex: ex, dialect: dialectName}
}

func (c conn) builder() *entsql.DialectBuilder {
	return entsql.Dialect(c.dialect)
}

// supportsRowLock 报告当前方言是否支持 SELECT ... FOR UPDATE
func (c conn) supportsRowLock() bool {
	return c.dialect == dialect.MySQL || c.dialect == dialect.Postgres
}

// exec 执行一条写语句并返回受影响的行数，驱动错误会被分类
func (c conn) exec(ctx context.Context, q entsql.Querier) (int, error) {
	query, args := q.Query()
	var res sql.Result
	if err := c.ex.Exec(ctx, query, args, &res); err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// query 执行一条查询，并把结果集交给 scan 处理
func (c conn) query(ctx context.Context, q entsql.Querier, scan func(rows *entsql.Rows) error) error {
	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := c.ex.Query(ctx, query, args, rows); err != nil {
		return classify(err)
	}
	defer rows.Close()
	if err := scan(rows); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrRecordNotFound
		}
		return classify(err)
	}
	return nil
}

// insert 插入一行并返回自增主键。Postgres 不支持 LastInsertId，改用 RETURNING。
func (c conn) insert(ctx context.Context, b *entsql.InsertBuilder) (uint, error) {
	if c.dialect == dialect.Postgres {
		var id int64
		err := c.query(ctx, b.Returning("id"), func(rows *entsql.Rows) error {
			var err error
			id, err = entsql.ScanInt64(rows)
			return err
		})
		return uint(id), err
	}
	query, args := b.Query()
	var res sql.Result
	if err := c.ex.Exec(ctx, query, args, &res); err != nil {
		return 0, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// count 执行 SELECT COUNT(*) FROM table
func (c conn) count(ctx context.Context, table string) (int64, error) {
	var n int64
	b := c.builder()
	err := c.query(ctx, b.Select(entsql.Count("*")).From(b.Table(table)), func(rows *entsql.Rows) error {
		var err error
		n, err = entsql.ScanInt64(rows)
		return err
	})
	return n, err
}

// scanIDs 读取单列 id 结果集
func scanIDs(rows *entsql.Rows) ([]uint, error) {
	var ids []uint
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, rows.Err()
}

// idArgs 把 ID 列表转换为 IN 谓词需要的参数
func idArgs(ids []uint) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = int64(id)
	}
	return args
}

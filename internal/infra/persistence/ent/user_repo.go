/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-20 13:10:42
 * @LastEditTime: 2025-10-21 14:05:33
 * @LastEditors: 安知鱼
 */
package ent

import (
	"context"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/anzhiyu-c/anheyu-press/internal/infra/persistence/database"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

type userRow struct {
	ID    int64  `sql:"id"`
	Name  string `sql:"name"`
	Email string `sql:"email"`
}

func (r userRow) toModel() *model.User {
	return &model.User{ID: uint(r.ID), Name: r.Name, Email: r.Email}
}

type entUserRepository struct {
	conn
}

// NewEntUserRepository 是 entUserRepository 的构造函数。
// ex 可以是驱动本身，也可以是一个进行中的事务。
func NewEntUserRepository(ex dialect.ExecQuerier, dialectName string) repository.UserRepository {
	return &entUserRepository{conn: newConn(ex, dialectName)}
}

func (r *entUserRepository) Create(ctx context.Context, user *model.User) error {
	id, err := r.insert(ctx, r.builder().Insert(database.UsersTableName).
		Columns("name", "email").
		Values(user.Name, user.Email))
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *entUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	b := r.builder()
	var rows []userRow
	err := r.query(ctx, b.Select("id", "name", "email").
		From(b.Table(database.UsersTableName)).
		Where(entsql.EQ("id", int64(id))), func(rs *entsql.Rows) error {
		return entsql.ScanSlice(rs, &rows)
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	return rows[0].toModel(), nil
}

// Delete 先读取再删除，返回删除前的用户；删除 0 行视为不存在
func (r *entUserRepository) Delete(ctx context.Context, id uint) (*model.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := r.exec(ctx, r.builder().Delete(database.UsersTableName).Where(entsql.EQ("id", int64(id))))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, repository.ErrRecordNotFound
	}
	return user, nil
}

func (r *entUserRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, database.UsersTableName)
}

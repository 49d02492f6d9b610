/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:55:30
 * @LastEditTime: 2025-10-21 14:52:47
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

type categoryRow struct {
	ID   int64  `sql:"id"`
	Name string `sql:"name"`
}

type categoryRepo struct {
	conn
}

// NewCategoryRepo 是 categoryRepo 的构造函数。
func NewCategoryRepo(ex dialect.ExecQuerier, dialectName string) repository.CategoryRepository {
	return &categoryRepo{conn: newConn(ex, dialectName)}
}

func (r *categoryRepo) Create(ctx context.Context, name string) (*model.Category, error) {
	id, err := r.insert(ctx, r.builder().Insert(database.CategoriesTableName).
		Columns("name").
		Values(name))
	if err != nil {
		return nil, err
	}
	return &model.Category{ID: id, Name: name}, nil
}

// ListOrderByID 按 ID 升序返回全部分类，合并流程依赖这个顺序确定保留者
func (r *categoryRepo) ListOrderByID(ctx context.Context) ([]*model.Category, error) {
	b := r.builder()
	var rows []categoryRow
	err := r.query(ctx, b.Select("id", "name").
		From(b.Table(database.CategoriesTableName)).
		OrderBy(entsql.Asc("id")), func(rs *entsql.Rows) error {
		return entsql.ScanSlice(rs, &rows)
	})
	if err != nil {
		return nil, err
	}
	categories := make([]*model.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, &model.Category{ID: uint(row.ID), Name: row.Name})
	}
	return categories, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	b := r.builder()
	var rows []categoryRow
	err := r.query(ctx, b.Select("id", "name").
		From(b.Table(database.CategoriesTableName)).
		Where(entsql.EQ("id", int64(id))), func(rs *entsql.Rows) error {
		return entsql.ScanSlice(rs, &rows)
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	articleIDs, err := r.ArticleIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.Category{ID: uint(rows[0].ID), Name: rows[0].Name, ArticleIDs: articleIDs}, nil
}

func (r *categoryRepo) ArticleIDs(ctx context.Context, categoryID uint) ([]uint, error) {
	b := r.builder()
	var ids []uint
	err := r.query(ctx, b.Select("article_id").
		From(b.Table(database.CategoryArticlesTableName)).
		Where(entsql.EQ("category_id", int64(categoryID))).
		OrderBy("article_id"), func(rs *entsql.Rows) error {
		var err error
		ids, err = scanIDs(rs)
		return err
	})
	return ids, err
}

// ReplaceArticleLink 删除 (fromID, articleID) 关联，并在 (toID, articleID) 不存在时建立它。
// 先查询再插入，避免依赖各数据库不同的 upsert 语法。
func (r *categoryRepo) ReplaceArticleLink(ctx context.Context, articleID, fromID, toID uint) error {
	if _, err := r.exec(ctx, r.builder().Delete(database.CategoryArticlesTableName).
		Where(entsql.And(
			entsql.EQ("category_id", int64(fromID)),
			entsql.EQ("article_id", int64(articleID)),
		))); err != nil {
		return err
	}

	b := r.builder()
	var linked int64
	err := r.query(ctx, b.Select(entsql.Count("*")).
		From(b.Table(database.CategoryArticlesTableName)).
		Where(entsql.And(
			entsql.EQ("category_id", int64(toID)),
			entsql.EQ("article_id", int64(articleID)),
		)), func(rs *entsql.Rows) error {
		var err error
		linked, err = entsql.ScanInt64(rs)
		return err
	})
	if err != nil {
		return err
	}
	if linked > 0 {
		return nil
	}

	_, err = r.exec(ctx, r.builder().Insert(database.CategoryArticlesTableName).
		Columns("category_id", "article_id").
		Values(int64(toID), int64(articleID)))
	return err
}

// Delete 先移除关联再删除分类行，删除 0 行视为不存在
func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	if _, err := r.exec(ctx, r.builder().Delete(database.CategoryArticlesTableName).
		Where(entsql.EQ("category_id", int64(id)))); err != nil {
		return err
	}
	n, err := r.exec(ctx, r.builder().Delete(database.CategoriesTableName).
		Where(entsql.EQ("id", int64(id))))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, database.CategoriesTableName)
}

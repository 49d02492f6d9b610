/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-07-25 11:05:21
 * @LastEditTime: 2025-10-21 14:30:08
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

type articleRow struct {
	ID       int64  `sql:"id"`
	Title    string `sql:"title"`
	Content  string `sql:"content"`
	Upvotes  int64  `sql:"upvotes"`
	AuthorID int64  `sql:"author_id"`
}

func (r articleRow) toModel() *model.Article {
	return &model.Article{
		ID:       uint(r.ID),
		Title:    r.Title,
		Content:  r.Content,
		Upvotes:  int(r.Upvotes),
		AuthorID: uint(r.AuthorID),
	}
}

type articleRepo struct {
	conn
}

// NewArticleRepo 是 articleRepo 的构造函数。
func NewArticleRepo(ex dialect.ExecQuerier, dialectName string) repository.ArticleRepository {
	return &articleRepo{conn: newConn(ex, dialectName)}
}

// Create 插入文章并写入分类关联
func (r *articleRepo) Create(ctx context.Context, params *model.CreateArticleParams) (*model.Article, error) {
	id, err := r.insert(ctx, r.builder().Insert(database.ArticlesTableName).
		Columns("title", "content", "upvotes", "author_id").
		Values(params.Title, params.Content, params.Upvotes, int64(params.AuthorID)))
	if err != nil {
		return nil, err
	}
	for _, categoryID := range params.CategoryIDs {
		if _, err := r.exec(ctx, r.builder().Insert(database.CategoryArticlesTableName).
			Columns("category_id", "article_id").
			Values(int64(categoryID), int64(id))); err != nil {
			return nil, err
		}
	}
	return &model.Article{
		ID:          id,
		Title:       params.Title,
		Content:     params.Content,
		Upvotes:     params.Upvotes,
		AuthorID:    params.AuthorID,
		CategoryIDs: params.CategoryIDs,
	}, nil
}

func (r *articleRepo) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	b := r.builder()
	var rows []articleRow
	err := r.query(ctx, b.Select("id", "title", "content", "upvotes", "author_id").
		From(b.Table(database.ArticlesTableName)).
		Where(entsql.EQ("id", int64(id))), func(rs *entsql.Rows) error {
		return entsql.ScanSlice(rs, &rows)
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	article := rows[0].toModel()

	b = r.builder()
	err = r.query(ctx, b.Select("category_id").
		From(b.Table(database.CategoryArticlesTableName)).
		Where(entsql.EQ("article_id", int64(id))).
		OrderBy("category_id"), func(rs *entsql.Rows) error {
		ids, err := scanIDs(rs)
		article.CategoryIDs = ids
		return err
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

func (r *articleRepo) FindIDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	b := r.builder()
	var ids []uint
	err := r.query(ctx, b.Select("id").
		From(b.Table(database.ArticlesTableName)).
		Where(entsql.EQ("author_id", int64(authorID))).
		OrderBy("id"), func(rs *entsql.Rows) error {
		var err error
		ids, err = scanIDs(rs)
		return err
	})
	return ids, err
}

// FindIDsBelowUpvotes 在 MySQL/Postgres 上使用 FOR UPDATE 锁定选中的行，
// 使随后的删除与这次读取基于同一份数据。SQLite 的写事务本身是串行的，无需加锁。
func (r *articleRepo) FindIDsBelowUpvotes(ctx context.Context, threshold int) ([]uint, error) {
	b := r.builder()
	selector := b.Select("id").
		From(b.Table(database.ArticlesTableName)).
		Where(entsql.LT("upvotes", threshold)).
		OrderBy("id")
	if r.supportsRowLock() {
		selector.ForUpdate()
	}
	var ids []uint
	err := r.query(ctx, selector, func(rs *entsql.Rows) error {
		var err error
		ids, err = scanIDs(rs)
		return err
	})
	return ids, err
}

func (r *articleRepo) ReassignAuthor(ctx context.Context, fromAuthorID, toAuthorID uint) (int, error) {
	return r.exec(ctx, r.builder().Update(database.ArticlesTableName).
		Set("author_id", int64(toAuthorID)).
		Where(entsql.EQ("author_id", int64(fromAuthorID))))
}

// DeleteByIDs 先删除关联表中的行再删除文章，不依赖外键的级联行为
func (r *articleRepo) DeleteByIDs(ctx context.Context, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if _, err := r.exec(ctx, r.builder().Delete(database.CategoryArticlesTableName).
		Where(entsql.In("article_id", idArgs(ids)...))); err != nil {
		return 0, err
	}
	return r.exec(ctx, r.builder().Delete(database.ArticlesTableName).
		Where(entsql.In("id", idArgs(ids)...)))
}

// AddUpvotes 生成 upvotes = upvotes + delta，不先读取当前值。
// delta 为负时附加 upvotes >= -delta 条件，数据库层面保证结果不为负。
func (r *articleRepo) AddUpvotes(ctx context.Context, id uint, delta int) error {
	where := entsql.EQ("id", int64(id))
	if delta < 0 {
		where = entsql.And(where, entsql.GTE("upvotes", -delta))
	}
	n, err := r.exec(ctx, r.builder().Update(database.ArticlesTableName).
		Add("upvotes", delta).
		Where(where))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (r *articleRepo) TopByUpvotes(ctx context.Context, limit int) ([]model.RankingItem, error) {
	b := r.builder()
	selector := b.Select("id", "upvotes").
		From(b.Table(database.ArticlesTableName)).
		OrderBy(entsql.Desc("upvotes"), entsql.Asc("id"))
	if limit > 0 {
		selector.Limit(limit)
	}
	var rows []struct {
		ID      int64 `sql:"id"`
		Upvotes int64 `sql:"upvotes"`
	}
	err := r.query(ctx, selector, func(rs *entsql.Rows) error {
		return entsql.ScanSlice(rs, &rows)
	})
	if err != nil {
		return nil, err
	}
	items := make([]model.RankingItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, model.RankingItem{ArticleID: uint(row.ID), Upvotes: int(row.Upvotes)})
	}
	return items, nil
}

func (r *articleRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, database.ArticlesTableName)
}

/*
 * @Description: 测试用 SQLite 存储与数据准备
 * @Author: 安知鱼
 * @Date: 2025-10-21 16:50:27
 * @LastEditTime: 2025-10-21 16:50:27
 * @LastEditors: 安知鱼
 */
package testutil

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anheyu-press/internal/infra/persistence/database"
	ent_impl "github.com/anzhiyu-c/anheyu-press/internal/infra/persistence/ent"
	"github.com/anzhiyu-c/anheyu-press/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

// Store 是一个已迁移的临时 SQLite 数据库，每个测试独享一个文件
type Store struct {
	Driver    dialect.Driver
	Repos     repository.Repositories
	TxManager repository.TransactionManager
}

// NewStore 在 t.TempDir() 下创建数据库并完成迁移，测试结束时自动关闭
func NewStore(t testing.TB) *Store {
	t.Helper()
	return NewStoreAt(t, filepath.Join(t.TempDir(), "press.db"))
}

// NewStoreAt 打开指定路径的 SQLite 数据库并完成迁移，用于和被测程序共享同一个文件
func NewStoreAt(t testing.TB, path string) *Store {
	t.Helper()

	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	drv := entsql.OpenDB(dialect.SQLite, db)
	require.NoError(t, database.Migrate(context.Background(), drv))

	return &Store{
		Driver:    drv,
		Repos:     ent_impl.NewRepositories(drv),
		TxManager: ent_impl.NewEntTransactionManager(drv),
	}
}

// User 创建一个用户，name 同时用于生成唯一邮箱
func (s *Store) User(t testing.TB, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, s.Repos.User.Create(context.Background(), u))
	return u
}

// Category 创建一个分类
func (s *Store) Category(t testing.TB, name string) *model.Category {
	t.Helper()
	c, err := s.Repos.Category.Create(context.Background(), name)
	require.NoError(t, err)
	return c
}

// Article 为作者创建一篇文章并关联给定分类
func (s *Store) Article(t testing.TB, authorID uint, upvotes int, categoryIDs ...uint) *model.Article {
	t.Helper()
	a, err := s.Repos.Article.Create(context.Background(), &model.CreateArticleParams{
		Title:       "title",
		Content:     "content",
		Upvotes:     upvotes,
		AuthorID:    authorID,
		CategoryIDs: categoryIDs,
	})
	require.NoError(t, err)
	return a
}

// Snapshot 是存储中与一致性相关的全部数据，用于断言失败的操作没有留下任何改动
type Snapshot struct {
	Users      []model.User
	Articles   []model.Article
	Categories []model.Category
}

// Snapshot 读取当前全部用户、文章（含分类）与分类（含文章）
func (s *Store) Snapshot(t testing.TB) Snapshot {
	t.Helper()
	ctx := context.Background()
	var snap Snapshot

	b := entsql.Dialect(dialect.SQLite)
	for _, table := range []string{database.UsersTableName, database.ArticlesTableName} {
		query, args := b.Select("id").From(b.Table(table)).OrderBy("id").Query()
		rows := &entsql.Rows{}
		require.NoError(t, s.Driver.Query(ctx, query, args, rows))
		var ids []int64
		for rows.Next() {
			var id int64
			require.NoError(t, rows.Scan(&id))
			ids = append(ids, id)
		}
		require.NoError(t, rows.Close())

		for _, id := range ids {
			switch table {
			case database.UsersTableName:
				u, err := s.Repos.User.FindByID(ctx, uint(id))
				require.NoError(t, err)
				snap.Users = append(snap.Users, *u)
			case database.ArticlesTableName:
				a, err := s.Repos.Article.GetByID(ctx, uint(id))
				require.NoError(t, err)
				snap.Articles = append(snap.Articles, *a)
			}
		}
	}

	categories, err := s.Repos.Category.ListOrderByID(ctx)
	require.NoError(t, err)
	for _, c := range categories {
		full, err := s.Repos.Category.GetByID(ctx, c.ID)
		require.NoError(t, err)
		snap.Categories = append(snap.Categories, *full)
	}
	return snap
}

// RecordingPublisher 记录所有发布的事件，实现 event.Publisher
type RecordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *RecordingPublisher) Publish(topic event.Topic, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.Event{Topic: topic, Payload: payload})
}

// Events 返回已记录事件的副本
func (p *RecordingPublisher) Events() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Event(nil), p.events...)
}

// Topics 返回已记录事件的主题，按发布顺序
func (p *RecordingPublisher) Topics() []event.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]event.Topic, len(p.events))
	for i, e := range p.events {
		topics[i] = e.Topic
	}
	return topics
}

// SortedIDs 返回排序后的副本，便于比较 ID 集合
func SortedIDs(ids []uint) []uint {
	out := append([]uint(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

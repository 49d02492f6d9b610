package ent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anheyu-press/internal/testutil"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	alice := store.User(t, "alice")

	t.Run("按ID读取", func(t *testing.T) {
		got, err := store.Repos.User.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice, got)
	})

	t.Run("不存在的用户返回 ErrRecordNotFound", func(t *testing.T) {
		_, err := store.Repos.User.FindByID(ctx, alice.ID+100)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)

		_, err = store.Repos.User.Delete(ctx, alice.ID+100)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	})

	t.Run("重复邮箱被归类为唯一约束冲突", func(t *testing.T) {
		err := store.Repos.User.Create(ctx, &model.User{Name: "alice2", Email: alice.Email})
		require.Error(t, err)
		assert.True(t, repository.IsConstraint(err, repository.ConstraintUnique), "got %v", err)
	})

	t.Run("仍有文章的用户不能被删除", func(t *testing.T) {
		bob := store.User(t, "bob")
		store.Article(t, bob.ID, 0)
		_, err := store.Repos.User.Delete(ctx, bob.ID)
		require.Error(t, err)
		assert.True(t, repository.IsConstraint(err, repository.ConstraintForeignKey), "got %v", err)
	})

	t.Run("删除返回删除前的用户", func(t *testing.T) {
		carol := store.User(t, "carol")
		got, err := store.Repos.User.Delete(ctx, carol.ID)
		require.NoError(t, err)
		assert.Equal(t, carol, got)

		_, err = store.Repos.User.FindByID(ctx, carol.ID)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
	})
}

func TestArticleRepository(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	author := store.User(t, "author")
	other := store.User(t, "other")
	tech := store.Category(t, "tech")
	life := store.Category(t, "life")

	a1 := store.Article(t, author.ID, 0, tech.ID, life.ID)
	a2 := store.Article(t, author.ID, 5)
	a3 := store.Article(t, other.ID, 10, tech.ID)

	t.Run("读取文章及其分类", func(t *testing.T) {
		got, err := store.Repos.Article.GetByID(ctx, a1.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{tech.ID, life.ID}, got.CategoryIDs)
		assert.Equal(t, author.ID, got.AuthorID)
	})

	t.Run("关联不存在的作者被归类为外键冲突", func(t *testing.T) {
		_, err := store.Repos.Article.Create(ctx, &model.CreateArticleParams{Title: "x", AuthorID: 9999})
		require.Error(t, err)
		assert.True(t, repository.IsConstraint(err, repository.ConstraintForeignKey), "got %v", err)
	})

	t.Run("按作者查询", func(t *testing.T) {
		ids, err := store.Repos.Article.FindIDsByAuthor(ctx, author.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{a1.ID, a2.ID}, ids)
	})

	t.Run("阈值查询使用严格小于", func(t *testing.T) {
		tests := []struct {
			name      string
			threshold int
			want      []uint
		}{
			{name: "阈值0没有结果", threshold: 0, want: nil},
			{name: "阈值5只包含0赞", threshold: 5, want: []uint{a1.ID}},
			{name: "阈值6包含0与5赞", threshold: 6, want: []uint{a1.ID, a2.ID}},
			{name: "阈值100包含全部", threshold: 100, want: []uint{a1.ID, a2.ID, a3.ID}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ids, err := store.Repos.Article.FindIDsBelowUpvotes(ctx, tt.threshold)
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids)
			})
		}
	})

	t.Run("点赞增减", func(t *testing.T) {
		require.NoError(t, store.Repos.Article.AddUpvotes(ctx, a2.ID, 1))
		require.NoError(t, store.Repos.Article.AddUpvotes(ctx, a2.ID, -1))
		got, err := store.Repos.Article.GetByID(ctx, a2.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Upvotes)
	})

	t.Run("减到负数被拒绝", func(t *testing.T) {
		err := store.Repos.Article.AddUpvotes(ctx, a1.ID, -1)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
		got, err := store.Repos.Article.GetByID(ctx, a1.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Upvotes)
	})

	t.Run("不存在的文章点赞返回 ErrRecordNotFound", func(t *testing.T) {
		assert.ErrorIs(t, store.Repos.Article.AddUpvotes(ctx, 9999, 1), repository.ErrRecordNotFound)
	})

	t.Run("转移作者", func(t *testing.T) {
		n, err := store.Repos.Article.ReassignAuthor(ctx, other.ID, author.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		got, err := store.Repos.Article.GetByID(ctx, a3.ID)
		require.NoError(t, err)
		assert.Equal(t, author.ID, got.AuthorID)
	})

	t.Run("批量删除返回实际删除行数并清理分类关联", func(t *testing.T) {
		n, err := store.Repos.Article.DeleteByIDs(ctx, []uint{a1.ID, 9999})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		ids, err := store.Repos.Category.ArticleIDs(ctx, life.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)

		n, err = store.Repos.Article.DeleteByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	author := store.User(t, "author")
	go1 := store.Category(t, "go")
	go2 := store.Category(t, "go")
	rust := store.Category(t, "rust")

	a1 := store.Article(t, author.ID, 0, go2.ID)
	a2 := store.Article(t, author.ID, 0, go1.ID, go2.ID)

	t.Run("按ID升序列出", func(t *testing.T) {
		list, err := store.Repos.Category.ListOrderByID(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []uint{go1.ID, go2.ID, rust.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})
	})

	t.Run("替换关联", func(t *testing.T) {
		require.NoError(t, store.Repos.Category.ReplaceArticleLink(ctx, a1.ID, go2.ID, go1.ID))
		got, err := store.Repos.Article.GetByID(ctx, a1.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{go1.ID}, got.CategoryIDs)
	})

	t.Run("已关联目标分类时替换是幂等的", func(t *testing.T) {
		require.NoError(t, store.Repos.Category.ReplaceArticleLink(ctx, a2.ID, go2.ID, go1.ID))
		got, err := store.Repos.Article.GetByID(ctx, a2.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{go1.ID}, got.CategoryIDs)
	})

	t.Run("删除分类", func(t *testing.T) {
		require.NoError(t, store.Repos.Category.Delete(ctx, go2.ID))
		_, err := store.Repos.Category.GetByID(ctx, go2.ID)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
		assert.ErrorIs(t, store.Repos.Category.Delete(ctx, go2.ID), repository.ErrRecordNotFound)
	})

	t.Run("读取分类及其文章", func(t *testing.T) {
		got, err := store.Repos.Category.GetByID(ctx, go1.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{a1.ID, a2.ID}, got.ArticleIDs)
	})
}

func TestTransactionManager(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	author := store.User(t, "author")

	t.Run("正常返回时提交", func(t *testing.T) {
		err := store.TxManager.Do(ctx, func(repos repository.Repositories) error {
			_, err := repos.Category.Create(ctx, "committed")
			return err
		})
		require.NoError(t, err)
		n, err := store.Repos.Category.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("返回错误时回滚并原样返回错误", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.TxManager.Do(ctx, func(repos repository.Repositories) error {
			if _, err := repos.Article.Create(ctx, &model.CreateArticleParams{Title: "x", AuthorID: author.ID}); err != nil {
				return err
			}
			return boom
		})
		assert.Equal(t, boom, err)
		n, err := store.Repos.Article.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("panic 时回滚并继续 panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = store.TxManager.Do(ctx, func(repos repository.Repositories) error {
				if _, err := repos.Category.Create(ctx, "panicked"); err != nil {
					return err
				}
				panic("unexpected")
			})
		})
		n, err := store.Repos.Category.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})
}

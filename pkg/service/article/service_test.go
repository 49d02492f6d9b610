package article

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anheyu-press/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-press/internal/testutil"
	"github.com/anzhiyu-c/anheyu-press/pkg/constant"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

func newTestService(t *testing.T) (*Service, *testutil.Store, *testutil.RecordingPublisher) {
	store := testutil.NewStore(t)
	pub := &testutil.RecordingPublisher{}
	return NewService(store.TxManager, pub), store, pub
}

func TestUpvote(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newTestService(t)
	author := store.User(t, "author")

	tests := []struct {
		name    string
		initial int
	}{
		{name: "从0开始", initial: 0},
		{name: "从1开始", initial: 1},
		{name: "较大的值", initial: 41},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := store.Article(t, author.ID, tt.initial)
			got, err := svc.Upvote(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.initial+1, got.Upvotes)

			stored, err := store.Repos.Article.GetByID(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.initial+1, stored.Upvotes)
		})
	}

	events := pub.Events()
	require.Len(t, events, len(tests))
	assert.Equal(t, event.ArticleVoted, events[0].Topic)
	assert.Equal(t, 1, events[0].Payload.(*model.ArticleVotedEvent).Delta)

	t.Run("不存在的文章返回 NotFound", func(t *testing.T) {
		_, err := svc.Upvote(ctx, 9999)
		assert.ErrorIs(t, err, constant.ErrNotFound)
		assert.Len(t, pub.Events(), len(tests), "失败的操作不应发布事件")
	})
}

func TestDownvote(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newTestService(t)
	author := store.User(t, "author")

	t.Run("赞数为正时减1", func(t *testing.T) {
		a := store.Article(t, author.ID, 2)
		got, err := svc.Downvote(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Upvotes)

		stored, err := store.Repos.Article.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Upvotes)
	})

	t.Run("赞数为0时返回校验错误且不修改", func(t *testing.T) {
		a := store.Article(t, author.ID, 0)
		before := len(pub.Events())

		_, err := svc.Downvote(ctx, a.ID)
		assert.ErrorIs(t, err, constant.ErrBadRequest)
		assert.ErrorIs(t, err, constant.ErrUpvotesExhausted)
		assert.NotErrorIs(t, err, constant.ErrNotFound)

		stored, err := store.Repos.Article.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.Upvotes)
		assert.Len(t, pub.Events(), before)
	})

	t.Run("从1连续踩两次", func(t *testing.T) {
		a := store.Article(t, author.ID, 1)
		_, err := svc.Downvote(ctx, a.ID)
		require.NoError(t, err)
		_, err = svc.Downvote(ctx, a.ID)
		assert.ErrorIs(t, err, constant.ErrBadRequest)
	})

	t.Run("不存在的文章返回 NotFound", func(t *testing.T) {
		_, err := svc.Downvote(ctx, 9999)
		assert.ErrorIs(t, err, constant.ErrNotFound)
	})
}

func TestDeleteArticles(t *testing.T) {
	ctx := context.Background()

	t.Run("全部存在时删除", func(t *testing.T) {
		svc, store, pub := newTestService(t)
		author := store.User(t, "author")
		cat := store.Category(t, "tech")
		a1 := store.Article(t, author.ID, 0, cat.ID)
		a2 := store.Article(t, author.ID, 0)
		a3 := store.Article(t, author.ID, 0)

		require.NoError(t, svc.DeleteArticles(ctx, []uint{a1.ID, a2.ID}))

		_, err := store.Repos.Article.GetByID(ctx, a1.ID)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
		_, err = store.Repos.Article.GetByID(ctx, a3.ID)
		assert.NoError(t, err)

		got, err := store.Repos.Category.GetByID(ctx, cat.ID)
		require.NoError(t, err)
		assert.Empty(t, got.ArticleIDs)

		require.Equal(t, []event.Topic{event.ArticlesDeleted}, pub.Topics())
	})

	t.Run("任意一篇不存在时整体回滚", func(t *testing.T) {
		svc, store, pub := newTestService(t)
		author := store.User(t, "author")
		a1 := store.Article(t, author.ID, 0)
		a3 := store.Article(t, author.ID, 0)
		missing := a3.ID + 100
		before := store.Snapshot(t)

		err := svc.DeleteArticles(ctx, []uint{a1.ID, missing, a3.ID})
		assert.ErrorIs(t, err, constant.ErrNotFound)

		assert.Equal(t, before, store.Snapshot(t))
		assert.Empty(t, pub.Events())
	})

	t.Run("重复ID导致数量不一致时整体回滚", func(t *testing.T) {
		svc, store, pub := newTestService(t)
		author := store.User(t, "author")
		a1 := store.Article(t, author.ID, 0)
		before := store.Snapshot(t)

		err := svc.DeleteArticles(ctx, []uint{a1.ID, a1.ID})
		assert.ErrorIs(t, err, constant.ErrNotFound)

		assert.Equal(t, before, store.Snapshot(t))
		assert.Empty(t, pub.Events())
	})

	t.Run("空列表直接成功", func(t *testing.T) {
		svc, store, pub := newTestService(t)
		author := store.User(t, "author")
		store.Article(t, author.ID, 0)
		before := store.Snapshot(t)

		assert.NoError(t, svc.DeleteArticles(ctx, nil))
		assert.NoError(t, svc.DeleteArticles(ctx, []uint{}))

		assert.Equal(t, before, store.Snapshot(t))
		assert.Empty(t, pub.Events())
	})
}

func TestDeleteArticlesBelowUpvoteThreshold(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		upvotes   []int
		threshold int
		wantCount int
		wantLeft  []int
	}{
		{name: "删除低于阈值的文章", upvotes: []int{0, 1, 2, 3, 4}, threshold: 3, wantCount: 3, wantLeft: []int{3, 4}},
		{name: "等于阈值的文章保留", upvotes: []int{5, 5, 6}, threshold: 6, wantCount: 2, wantLeft: []int{6}},
		{name: "全部低于阈值", upvotes: []int{1, 2}, threshold: 10, wantCount: 2, wantLeft: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, pub := newTestService(t)
			author := store.User(t, "author")
			for _, u := range tt.upvotes {
				store.Article(t, author.ID, u)
			}

			result, err := svc.DeleteArticlesBelowUpvoteThreshold(ctx, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, result.DeletedCount)

			var left []int
			for _, a := range store.Snapshot(t).Articles {
				assert.GreaterOrEqual(t, a.Upvotes, tt.threshold)
				left = append(left, a.Upvotes)
			}
			assert.Equal(t, tt.wantLeft, left)

			events := pub.Events()
			require.Len(t, events, 1)
			payload := events[0].Payload.(*model.ArticlesDeletedEvent)
			assert.Len(t, payload.ArticleIDs, tt.wantCount)
			assert.Equal(t, model.DeleteReasonLowUpvotes, payload.Reason)
		})
	}

	t.Run("没有符合条件的文章时返回校验错误且不修改", func(t *testing.T) {
		svc, store, pub := newTestService(t)
		author := store.User(t, "author")
		store.Article(t, author.ID, 5)
		store.Article(t, author.ID, 7)
		before := store.Snapshot(t)

		result, err := svc.DeleteArticlesBelowUpvoteThreshold(ctx, 5)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, constant.ErrNoMatchingArticles)
		assert.ErrorIs(t, err, constant.ErrBadRequest)
		assert.False(t, errors.Is(err, constant.ErrNotFound))

		assert.Equal(t, before, store.Snapshot(t))
		assert.Empty(t, pub.Events())
	})
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, uniqueIDs([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, uniqueIDs(nil))
}

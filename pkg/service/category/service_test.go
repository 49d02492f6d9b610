package category

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

func TestGroupDuplicates(t *testing.T) {
	cat := func(id uint, name string) *model.Category { return &model.Category{ID: id, Name: name} }

	tests := []struct {
		name  string
		input []*model.Category
		want  []model.MergeGroup
	}{
		{name: "没有分类", input: nil, want: nil},
		{name: "没有重复", input: []*model.Category{cat(1, "a"), cat(2, "b")}, want: nil},
		{
			name:  "最小ID保留",
			input: []*model.Category{cat(1, "a"), cat(2, "b"), cat(3, "a"), cat(4, "a"), cat(5, "b")},
			want: []model.MergeGroup{
				{Name: "a", SurvivorID: 1, DuplicateIDs: []uint{3, 4}},
				{Name: "b", SurvivorID: 2, DuplicateIDs: []uint{5}},
			},
		},
		{
			name:  "输入乱序时仍按最小ID",
			input: []*model.Category{cat(7, "a"), cat(3, "a")},
			want:  []model.MergeGroup{{Name: "a", SurvivorID: 3, DuplicateIDs: []uint{7}}},
		},
		{
			name:  "名称区分大小写",
			input: []*model.Category{cat(1, "Go"), cat(2, "go")},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupDuplicates(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("合并同名分类并转移文章", func(t *testing.T) {
		store := testutil.NewStore(t)
		pub := &testutil.RecordingPublisher{}
		svc := NewService(store.TxManager, pub)

		author := store.User(t, "author")
		go1 := store.Category(t, "go")
		rust := store.Category(t, "rust")
		go2 := store.Category(t, "go")
		go3 := store.Category(t, "go")
		rust2 := store.Category(t, "rust")

		a1 := store.Article(t, author.ID, 0, go2.ID)
		a2 := store.Article(t, author.ID, 0, go1.ID, go2.ID, go3.ID) // 已关联保留者
		a3 := store.Article(t, author.ID, 0, rust2.ID)
		a4 := store.Article(t, author.ID, 0, rust.ID)

		report, err := svc.MergeCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uint{go2.ID, go3.ID, rust2.ID}, testutil.SortedIDs(report.RemovedIDs()))
		assert.Equal(t, 4, report.RelinkedArticles)

		snap := store.Snapshot(t)
		require.Len(t, snap.Categories, 2)
		assert.Equal(t, go1.ID, snap.Categories[0].ID)
		assert.Equal(t, rust.ID, snap.Categories[1].ID)
		assert.Equal(t, []uint{a1.ID, a2.ID}, snap.Categories[0].ArticleIDs)
		assert.Equal(t, []uint{a3.ID, a4.ID}, snap.Categories[1].ArticleIDs)

		got, err := store.Repos.Article.GetByID(ctx, a2.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{go1.ID}, got.CategoryIDs, "不应产生重复关联")

		for _, removed := range report.RemovedIDs() {
			_, err := store.Repos.Category.GetByID(ctx, removed)
			assert.ErrorIs(t, err, repository.ErrRecordNotFound)
		}
		assert.Equal(t, []event.Topic{event.CategoriesMerged}, pub.Topics())
	})

	t.Run("没有重复时不做任何修改", func(t *testing.T) {
		store := testutil.NewStore(t)
		pub := &testutil.RecordingPublisher{}
		svc := NewService(store.TxManager, pub)

		author := store.User(t, "author")
		a := store.Category(t, "a")
		b := store.Category(t, "b")
		store.Article(t, author.ID, 0, a.ID, b.ID)
		before := store.Snapshot(t)

		report, err := svc.MergeCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, report.Groups)
		assert.Zero(t, report.RelinkedArticles)
		assert.Equal(t, before, store.Snapshot(t))
		assert.Empty(t, pub.Events())
	})

	t.Run("重复执行是幂等的", func(t *testing.T) {
		store := testutil.NewStore(t)
		svc := NewService(store.TxManager, nil)
		store.Category(t, "x")
		store.Category(t, "x")

		_, err := svc.MergeCategories(ctx)
		require.NoError(t, err)
		before := store.Snapshot(t)

		report, err := svc.MergeCategories(ctx)
		require.NoError(t, err)
		assert.Empty(t, report.Groups)
		assert.Equal(t, before, store.Snapshot(t))
	})
}

func TestDeleteCategoryWithArticles(t *testing.T) {
	ctx := context.Background()

	t.Run("删除分类及其全部文章", func(t *testing.T) {
		store := testutil.NewStore(t)
		pub := &testutil.RecordingPublisher{}
		svc := NewService(store.TxManager, pub)

		author := store.User(t, "author")
		c := store.Category(t, "doomed")
		other := store.Category(t, "other")
		a1 := store.Article(t, author.ID, 0, c.ID)
		a2 := store.Article(t, author.ID, 3, c.ID, other.ID)
		a3 := store.Article(t, author.ID, 0, other.ID)

		require.NoError(t, svc.DeleteCategoryWithArticles(ctx, c.ID))

		_, err := store.Repos.Category.GetByID(ctx, c.ID)
		assert.ErrorIs(t, err, repository.ErrRecordNotFound)
		for _, id := range []uint{a1.ID, a2.ID} {
			_, err := store.Repos.Article.GetByID(ctx, id)
			assert.ErrorIs(t, err, repository.ErrRecordNotFound)
		}

		remaining, err := store.Repos.Category.GetByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{a3.ID}, remaining.ArticleIDs)

		assert.Equal(t, []event.Topic{event.CategoryDeleted, event.ArticlesDeleted}, pub.Topics())
	})

	t.Run("没有文章的分类", func(t *testing.T) {
		store := testutil.NewStore(t)
		pub := &testutil.RecordingPublisher{}
		svc := NewService(store.TxManager, pub)
		c := store.Category(t, "empty")

		require.NoError(t, svc.DeleteCategoryWithArticles(ctx, c.ID))
		n, err := store.Repos.Category.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, []event.Topic{event.CategoryDeleted}, pub.Topics())
	})

	t.Run("分类不存在时返回 NotFound 且不删除任何东西", func(t *testing.T) {
		store := testutil.NewStore(t)
		svc := NewService(store.TxManager, nil)
		author := store.User(t, "author")
		c := store.Category(t, "c")
		store.Article(t, author.ID, 0, c.ID)
		before := store.Snapshot(t)

		err := svc.DeleteCategoryWithArticles(ctx, c.ID+100)
		assert.ErrorIs(t, err, constant.ErrNotFound)
		assert.Equal(t, before, store.Snapshot(t))
	})
}

var errStorage = errors.New("storage unavailable")

// failingDeletes 在第 failAt 次删除分类时返回 errStorage，之前的删除照常执行
type failingDeletes struct {
	repository.CategoryRepository
	failAt int
	calls  *int
}

func (r failingDeletes) Delete(ctx context.Context, id uint) error {
	*r.calls++
	if *r.calls == r.failAt {
		return errStorage
	}
	return r.CategoryRepository.Delete(ctx, id)
}

type failingDeleteTx struct {
	inner  repository.TransactionManager
	failAt int
}

func (tx failingDeleteTx) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	calls := 0
	return tx.inner.Do(ctx, func(repos repository.Repositories) error {
		repos.Category = failingDeletes{CategoryRepository: repos.Category, failAt: tx.failAt, calls: &calls}
		return fn(repos)
	})
}

func TestMergeCategories_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	pub := &testutil.RecordingPublisher{}
	svc := NewService(failingDeleteTx{inner: store.TxManager, failAt: 2}, pub)

	author := store.User(t, "author")
	go1 := store.Category(t, "go")
	go2 := store.Category(t, "go")
	go3 := store.Category(t, "go")
	store.Category(t, "rust")
	rust2 := store.Category(t, "rust")
	store.Article(t, author.ID, 0, go2.ID)
	store.Article(t, author.ID, 0, go3.ID, go1.ID)
	store.Article(t, author.ID, 0, rust2.ID)
	before := store.Snapshot(t)

	// 第一个重复分类已转移并删除，第二个删除失败
	_, err := svc.MergeCategories(ctx)
	assert.ErrorIs(t, err, errStorage)

	assert.Equal(t, before, store.Snapshot(t))
	assert.Empty(t, pub.Events())
}

func TestDeleteCategoryWithArticles_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	pub := &testutil.RecordingPublisher{}
	svc := NewService(failingDeleteTx{inner: store.TxManager, failAt: 1}, pub)

	author := store.User(t, "author")
	c := store.Category(t, "doomed")
	other := store.Category(t, "other")
	store.Article(t, author.ID, 0, c.ID)
	store.Article(t, author.ID, 2, c.ID, other.ID)
	before := store.Snapshot(t)

	// 文章已删除后分类删除失败
	err := svc.DeleteCategoryWithArticles(ctx, c.ID)
	assert.ErrorIs(t, err, errStorage)

	assert.Equal(t, before, store.Snapshot(t))
	assert.Empty(t, pub.Events())
}

package commands

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/anheyu-press/internal/testutil"
)

// seedDuplicateCategories 在空库中写入 go(1) go(2) rust(3)，文章 1 只属于分类 2
func seedDuplicateCategories(t *testing.T, env *cliEnv) {
	t.Helper()
	store := testutil.NewStoreAt(t, env.dbPath)
	author := store.User(t, "author")
	store.Category(t, "go")
	dup := store.Category(t, "go")
	store.Category(t, "rust")
	store.Article(t, author.ID, 0, dup.ID)
}

func TestMergeCategoriesOutput(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("table", func(t *testing.T) {
		env := newCLIEnv(t)
		seedDuplicateCategories(t, env)
		out, err := env.run(t, "merge-categories")
		require.NoError(t, err)
		g.Assert(t, "merge_categories_table", []byte(out))
	})

	t.Run("json", func(t *testing.T) {
		env := newCLIEnv(t)
		seedDuplicateCategories(t, env)
		out, err := env.run(t, "merge-categories", "--json")
		require.NoError(t, err)
		g.Assert(t, "merge_categories_json", []byte(out))
	})
}

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redis_backed_model/internal/core"
	"redis_backed_model/pkg"
)

func TestMemoryStoreSaveAndFind(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	model := core.NewModel("Widget")

	for _, attrs := range []*core.Attributes{
		core.NewAttributes("id", "a", "name", "bolt", "score_[foo|bar]", "[wibble|wobble]"),
		core.NewAttributes("id", "b", "name", "nut"),
	} {
		e, err := core.NewEntity(model, attrs)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, e))
	}

	assert.Equal(t, []string{"a", "b"}, store.Members("widget_ids"))
	score, ok := store.Score("widgets_for_foo_by_bar:wibble", "a")
	require.True(t, ok)
	assert.Equal(t, "wobble", score)

	finder, err := core.NewFinder(model, store)
	require.NoError(t, err)
	res, err := finder.Find(ctx, []string{"b", "missing", "a"})
	require.NoError(t, err)
	all := res.All()
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID())
	assert.Equal(t, "a", all[1].ID())
}

func TestMemoryStoreHGetAllReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Execute(ctx, pkg.NewFieldSet("widget:1", "name", "bolt")))

	fields, err := store.HGetAll(ctx, "widget:1")
	require.NoError(t, err)
	fields["name"] = "changed"

	again, err := store.HGetAll(ctx, "widget:1")
	require.NoError(t, err)
	assert.Equal(t, "bolt", again["name"])
}

func TestMemoryStoreRejectsMalformedCommands(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.Error(t, store.Execute(ctx, pkg.Command{Kind: "del", Key: "x"}))
	assert.Error(t, store.Execute(ctx, pkg.Command{Kind: pkg.FieldSet, Key: "x", Args: []string{"only"}}))
	assert.Error(t, store.ExecuteAll(ctx, []pkg.Command{
		pkg.NewSetAdd("widget_ids", "1"),
		{Kind: pkg.SortedSetAdd, Key: "z"},
	}))
	assert.Equal(t, []string{"1"}, store.Members("widget_ids"))
}

package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redis_backed_model/internal/core"
	"redis_backed_model/pkg"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, *Metrics) {
	t.Helper()
	mr := miniredis.RunT(t)
	metrics := NewMetrics(prometheus.NewRegistry())

	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), metrics)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr, metrics
}

func TestNewRedisStoreRequiresURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "", nil)
	assert.Error(t, err)

	_, err = NewRedisStore(context.Background(), "not a url", nil)
	assert.Error(t, err)
}

func TestRedisStoreSaveAndFind(t *testing.T) {
	store, mr, metrics := newTestRedis(t)
	ctx := context.Background()
	model := core.NewModel("Widget")

	e, err := core.NewEntity(model, core.NewAttributes(
		"id", 1,
		"name", "value with spaces",
		"color", nil,
		"score_[made|date]", "[all|2012-03-04]",
		"score_[size|rank]", "[small|3]",
	))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, e))

	assert.Equal(t, "value with spaces", mr.HGet("widget:1", "name"))
	assert.Equal(t, "1", mr.HGet("widget:1", "id"))
	assert.Empty(t, mr.HGet("widget:1", "color"))

	members, err := mr.Members("widget_ids")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, members)

	score, err := mr.ZScore("widgets_for_made_by_date:all", "1")
	require.NoError(t, err)
	assert.Equal(t, float64(1330819200), score)

	score, err = mr.ZScore("widgets_for_size_by_rank:small", "1")
	require.NoError(t, err)
	assert.Equal(t, float64(3), score)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.commands.WithLabelValues("hset", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.commands.WithLabelValues("zadd", "ok")))

	finder, err := core.NewFinder(model, store)
	require.NoError(t, err)

	res, err := finder.Find(ctx, 1, 2)
	require.NoError(t, err)
	found, ok := res.One()
	require.True(t, ok)
	name, _ := found.StringValue("name")
	assert.Equal(t, "value with spaces", name)

	exists, err := finder.Exists(ctx, 2)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.lookups.WithLabelValues(lookupHit)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.lookups.WithLabelValues(lookupMiss)))
}

func TestRedisStoreExecute(t *testing.T) {
	store, mr, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Execute(ctx, pkg.NewFieldSet("widget:5", "size", "10")))
	assert.Equal(t, "10", mr.HGet("widget:5", "size"))

	fields, err := store.HGetAll(ctx, "widget:5")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"size": "10"}, fields)

	fields, err = store.HGetAll(ctx, "widget:404")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestRedisStoreLeavesScoreInterpretationToServer(t *testing.T) {
	store, _, metrics := newTestRedis(t)
	ctx := context.Background()

	err := store.Execute(ctx, pkg.NewSortedSetAdd("widgets_for_foo_by_bar:wibble", "wobble", "1"))
	assert.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.commands.WithLabelValues("zadd", "error")))

	err = store.ExecuteAll(ctx, []pkg.Command{
		pkg.NewSetAdd("widget_ids", "1"),
		pkg.NewSortedSetAdd("widgets_for_foo_by_bar:wibble", "wobble", "1"),
	})
	assert.Error(t, err)
}

func TestRedisStorePropagatesConnectionErrors(t *testing.T) {
	store, mr, _ := newTestRedis(t)
	mr.Close()

	_, err := store.HGetAll(context.Background(), "widget:1")
	assert.Error(t, err)
}

func TestRedisStoreSaveRequiresID(t *testing.T) {
	store, _, _ := newTestRedis(t)
	e, err := core.NewEntity(core.NewModel("Widget"), core.NewAttributes("name", "x"))
	require.NoError(t, err)
	assert.ErrorIs(t, store.Save(context.Background(), e), core.ErrMissingID)
}

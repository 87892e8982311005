package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redis_backed_model/pkg"
)

func TestSummaryReportsStoreCounters(t *testing.T) {
	mr := miniredis.RunT(t)
	reg := prometheus.NewRegistry()
	other := prometheus.NewCounter(prometheus.CounterOpts{Name: "unrelated_total"})
	reg.MustRegister(other)
	other.Inc()

	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr(), NewMetrics(reg))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.ExecuteAll(ctx, []pkg.Command{
		pkg.NewSetAdd("widget_ids", "1"),
		pkg.NewFieldSet("widget:1", "name", "bolt"),
	}))
	_, err = store.HGetAll(ctx, "widget:1")
	require.NoError(t, err)
	_, err = store.HGetAll(ctx, "widget:2")
	require.NoError(t, err)

	summary, err := Summary(reg)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"redis_backed_model_commands_total{kind=sadd,result=ok}": 1,
		"redis_backed_model_commands_total{kind=hset,result=ok}": 1,
		"redis_backed_model_hash_lookups_total{result=hit}":      1,
		"redis_backed_model_hash_lookups_total{result=miss}":     1,
	}, summary)
}

func TestSummaryEmptyBeforeTraffic(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	summary, err := Summary(reg)
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeCommand(pkg.FieldSet, nil)
		m.observeLookup(lookupHit)
	})
}

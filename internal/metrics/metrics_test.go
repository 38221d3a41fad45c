package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-card-indexer/internal/metrics"
)

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := metrics.New(reg)
	require.NoError(t, err)

	_, err = metrics.New(reg)
	assert.Error(t, err)
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	m.EventIngested("MintCard")
	m.EventIngested("MintCard")
	m.DuplicateDropped()
	m.HandlerFailed("CardEdited")
	m.Reconnect()
	m.SetIndexerState("streaming")
	m.SetIndexerState("backoff")
	m.SetCursorBlock(42)
	m.CacheLookup("point", true)
	m.CacheLookup("list", false)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			key := f.GetName()
			for _, l := range metric.GetLabel() {
				key += "|" + l.GetValue()
			}
			switch {
			case metric.GetCounter() != nil:
				values[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[key] = metric.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["card_indexer_indexer_events_ingested_total|MintCard"])
	assert.Equal(t, 1.0, values["card_indexer_indexer_duplicate_logs_total"])
	assert.Equal(t, 1.0, values["card_indexer_indexer_handler_failures_total|CardEdited"])
	assert.Equal(t, 1.0, values["card_indexer_indexer_reconnects_total"])
	assert.Equal(t, 0.0, values["card_indexer_indexer_state|streaming"])
	assert.Equal(t, 1.0, values["card_indexer_indexer_state|backoff"])
	assert.Equal(t, 42.0, values["card_indexer_indexer_cursor_block"])
	assert.Equal(t, 1.0, values["card_indexer_cache_lookups_total|point|hit"])
	assert.Equal(t, 1.0, values["card_indexer_cache_lookups_total|list|miss"])
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.EventIngested("MintCard")
		m.SetIndexerState("degraded")
		m.CacheLookup("point", false)
		m.ArtifactUpload("ok")
		m.Simulation("mintBaseCard", "reverted")
	})
}

func TestMetrics_GaugeHelper(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	m.SetCursorBlock(7)
	count, err := testutil.GatherAndCount(reg, "card_indexer_indexer_cursor_block")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

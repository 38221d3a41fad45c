package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "card_indexer"

// IndexerStates lists every value of the indexer state gauge
var IndexerStates = []string{"disconnected", "subscribing", "streaming", "backoff", "degraded", "stopped"}

// Metrics holds the process metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	eventsIngested  *prometheus.CounterVec
	duplicates      prometheus.Counter
	handlerFailures *prometheus.CounterVec
	reconnects      prometheus.Counter
	indexerState    *prometheus.GaugeVec
	cursorBlock     prometheus.Gauge

	cacheLookups *prometheus.CounterVec

	artifactUploads *prometheus.CounterVec
	artifactDeletes *prometheus.CounterVec
	simulations     *prometheus.CounterVec
}

// New creates the metrics and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		eventsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "indexer",
			Name:      "events_ingested_total",
			Help:      "Chain events stored, by event name",
		}, []string{"event"}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "indexer",
			Name:      "duplicate_logs_total",
			Help:      "Logs dropped because (tx_hash, log_index) was already stored",
		}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "indexer",
			Name:      "handler_failures_total",
			Help:      "Events left unprocessed after a handler failure, by event name",
		}, []string{"event"}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "indexer",
			Name:      "reconnects_total",
			Help:      "Log subscription reconnect attempts",
		}),
		indexerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "indexer",
			Name:      "state",
			Help:      "1 for the current indexer state, 0 otherwise",
		}, []string{"state"}),
		cursorBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "indexer",
			Name:      "cursor_block",
			Help:      "Highest block whose logs were ingested",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Read cache lookups by shape and result",
		}, []string{"shape", "result"}),
		artifactUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "artifacts",
			Name:      "uploads_total",
			Help:      "Artifact uploads by status",
		}, []string{"status"}),
		artifactDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "artifacts",
			Name:      "deletes_total",
			Help:      "Artifact deletions by reason",
		}, []string{"reason"}),
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "coordinator",
			Name:      "simulations_total",
			Help:      "Contract simulations by method and result",
		}, []string{"method", "result"}),
	}

	err := errors.Join(
		reg.Register(m.eventsIngested),
		reg.Register(m.duplicates),
		reg.Register(m.handlerFailures),
		reg.Register(m.reconnects),
		reg.Register(m.indexerState),
		reg.Register(m.cursorBlock),
		reg.Register(m.cacheLookups),
		reg.Register(m.artifactUploads),
		reg.Register(m.artifactDeletes),
		reg.Register(m.simulations),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) EventIngested(event string) {
	if m == nil {
		return
	}
	m.eventsIngested.WithLabelValues(event).Inc()
}

func (m *Metrics) DuplicateDropped() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}

func (m *Metrics) HandlerFailed(event string) {
	if m == nil {
		return
	}
	m.handlerFailures.WithLabelValues(event).Inc()
}

func (m *Metrics) Reconnect() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}

// SetIndexerState flips the state gauge so exactly one state reads 1
func (m *Metrics) SetIndexerState(state string) {
	if m == nil {
		return
	}
	for _, s := range IndexerStates {
		value := 0.0
		if s == state {
			value = 1
		}
		m.indexerState.WithLabelValues(s).Set(value)
	}
}

func (m *Metrics) SetCursorBlock(block uint64) {
	if m == nil {
		return
	}
	m.cursorBlock.Set(float64(block))
}

func (m *Metrics) CacheLookup(shape string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(shape, result).Inc()
}

func (m *Metrics) ArtifactUpload(status string) {
	if m == nil {
		return
	}
	m.artifactUploads.WithLabelValues(status).Inc()
}

func (m *Metrics) ArtifactDeleted(reason string) {
	if m == nil {
		return
	}
	m.artifactDeletes.WithLabelValues(reason).Inc()
}

func (m *Metrics) Simulation(method string, result string) {
	if m == nil {
		return
	}
	m.simulations.WithLabelValues(method, result).Inc()
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_operations_total",
			Help: "Query cache operations",
		},
		[]string{"op"}, // hit|miss|stale|superseded|canceled|evicted
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "query_cache_entries",
			Help: "Number of entries currently in query cache",
		},
	)
	QueryFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_fetches_total",
			Help: "Completed query fetches by result",
		},
		[]string{"feature", "resource", "result"}, // success|error|canceled|superseded
	)
	QueryMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_mutations_total",
			Help: "Completed mutations by result",
		},
		[]string{"feature", "resource", "op", "result"},
	)
)

var (
	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_gateway_requests_total",
			Help: "Orders gateway calls by resource, operation and result",
		},
		[]string{"resource", "op", "result"},
	)
	GatewayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orders_gateway_request_duration_seconds",
			Help:    "Orders gateway call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "op"},
	)
)

var registerOnce sync.Once

// MustRegister регистрирует все метрики в глобальном реестре; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
			CacheOps, CacheSize, QueryFetches, QueryMutations,
			GatewayRequests, GatewayLatency,
		)
	})
}

// Query — адаптер метрик для кэша запросов поверх глобальных коллекторов.
type Query struct{}

func (Query) FetchDone(feature, resource, result string) {
	QueryFetches.WithLabelValues(feature, resource, result).Inc()
}

func (Query) MutationDone(feature, resource, op, result string) {
	QueryMutations.WithLabelValues(feature, resource, op, result).Inc()
}

func (Query) CacheOp(op string) { CacheOps.WithLabelValues(op).Inc() }

func (Query) Entries(n int) { CacheSize.Set(float64(n)) }

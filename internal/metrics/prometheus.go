package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricNamespace = "tiercache"

// Exporter exposes a Collector's counters as Prometheus metrics. It
// implements prometheus.Collector and builds const metrics from a snapshot
// on every scrape, so it adds no overhead to the cache's hot path.
//
// Exporter 将Collector的计数器暴露为Prometheus指标。
// 它实现prometheus.Collector，在每次抓取时从快照构建常量指标，
// 因此不会给缓存的热路径增加任何开销。
type Exporter struct {
	collector *Collector

	hits        *prometheus.Desc
	misses      *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
	hitRate     *prometheus.Desc
	latency     *prometheus.Desc
}

// NewExporter creates an exporter labeled with the cache instance name.
//
// NewExporter 创建以缓存实例名称为标签的导出器。
//
// Parameters:
//   - collector: The collector to export
//   - cacheName: Value for the "cache" label on every metric
//
// Returns:
//   - *Exporter: A prometheus.Collector ready for registration
func NewExporter(collector *Collector, cacheName string) *Exporter {
	labels := prometheus.Labels{"cache": cacheName}
	return &Exporter{
		collector: collector,
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, "", "hits_total"),
			"Number of successful cache retrievals.", nil, labels),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, "", "misses_total"),
			"Number of cache retrievals where the key was absent or expired.", nil, labels),
		evictions: prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, "", "evictions_total"),
			"Number of entries removed due to capacity constraints.", nil, labels),
		expirations: prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, "", "expirations_total"),
			"Number of entries removed due to TTL expiry.", nil, labels),
		hitRate: prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, "", "hit_rate"),
			"Ratio of hits to total lookups.", nil, labels),
		latency: prometheus.NewDesc(
			prometheus.BuildFQName(metricNamespace, "", "access_latency_seconds"),
			"Rolling average lookup latency.", nil, labels),
	}
}

// Describe 实现prometheus.Collector
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.hits
	ch <- e.misses
	ch <- e.evictions
	ch <- e.expirations
	ch <- e.hitRate
	ch <- e.latency
}

// Collect 实现prometheus.Collector，从快照构建常量指标
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	s := e.collector.Snapshot()
	ch <- prometheus.MustNewConstMetric(e.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(e.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(e.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(e.expirations, prometheus.CounterValue, float64(s.Expirations))
	ch <- prometheus.MustNewConstMetric(e.hitRate, prometheus.GaugeValue, s.HitRate)
	ch <- prometheus.MustNewConstMetric(e.latency, prometheus.GaugeValue, s.AvgAccessLatency.Seconds())
}

package status

import (
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "particlefield"

// Collector exports a Registry to Prometheus
// Counters and gauges export as gauges; each label becomes an info gauge with value 1
type Collector struct {
	reg *Registry
}

func NewCollector(reg *Registry) *Collector {
	return &Collector{reg: reg}
}

// Describe sends nothing, which registers Collector as unchecked
// Key sets grow at runtime as the controller caches new cells
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reg.Counters.Each(func(key string, v *atomic.Int64) {
		ch <- prometheus.MustNewConstMetric(gaugeDesc(key), prometheus.GaugeValue, float64(v.Load()))
	})
	c.reg.Gauges.Each(func(key string, g *Gauge) {
		ch <- prometheus.MustNewConstMetric(gaugeDesc(key), prometheus.GaugeValue, g.Value())
	})
	c.reg.Labels.Each(func(key string, l *Label) {
		desc := prometheus.NewDesc(MetricName(key), "particlefield "+key, []string{"value"}, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, 1, l.Value())
	})
}

func gaugeDesc(key string) *prometheus.Desc {
	return prometheus.NewDesc(MetricName(key), "particlefield "+key, nil, nil)
}

// MetricName maps a registry key such as engine.fps to particlefield_engine_fps
func MetricName(key string) string {
	return prometheus.BuildFQName(namespace, "", strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

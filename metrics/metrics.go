// Package metrics exports sptr control block statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obinnaokechukwu/sptr"
)

const namespace = "sptr"

// Collector is a prometheus.Collector reading sptr.Statistics and
// sptr.BlockUsage at scrape time.
type Collector struct {
	created        *prometheus.Desc
	disposed       *prometheus.Desc
	destroyed      *prometheus.Desc
	upgrades       *prometheus.Desc
	failedUpgrades *prometheus.Desc
	allocFailures  *prometheus.Desc
	live           *prometheus.Desc
	limit          *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector for the process-wide sptr counters.
func NewCollector() *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		created:        desc("blocks_created_total", "Control blocks handed out to shared handles."),
		disposed:       desc("payloads_disposed_total", "Payloads disposed after their last strong reference was dropped."),
		destroyed:      desc("blocks_destroyed_total", "Control blocks reclaimed after all references were dropped."),
		upgrades:       desc("weak_upgrades_total", "Weak handles successfully upgraded to shared handles."),
		failedUpgrades: desc("weak_upgrades_failed_total", "Weak handle upgrades that found the payload disposed."),
		allocFailures:  desc("block_alloc_failures_total", "Constructions rejected by the control block limit."),
		live:           desc("blocks_live", "Control blocks currently allocated."),
		limit:          desc("blocks_limit", "Configured control block limit, 0 if unlimited."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.created
	ch <- c.disposed
	ch <- c.destroyed
	ch <- c.upgrades
	ch <- c.failedUpgrades
	ch <- c.allocFailures
	ch <- c.live
	ch <- c.limit
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := sptr.Statistics()
	u := sptr.BlockUsage()

	limit := u.Limit
	if limit < 0 {
		limit = 0
	}

	ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(s.Created))
	ch <- prometheus.MustNewConstMetric(c.disposed, prometheus.CounterValue, float64(s.Disposed))
	ch <- prometheus.MustNewConstMetric(c.destroyed, prometheus.CounterValue, float64(s.Destroyed))
	ch <- prometheus.MustNewConstMetric(c.upgrades, prometheus.CounterValue, float64(s.Upgrades))
	ch <- prometheus.MustNewConstMetric(c.failedUpgrades, prometheus.CounterValue, float64(s.FailedUpgrades))
	ch <- prometheus.MustNewConstMetric(c.allocFailures, prometheus.CounterValue, float64(s.AllocFailures))
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(u.LiveBlocks))
	ch <- prometheus.MustNewConstMetric(c.limit, prometheus.GaugeValue, float64(limit))
}

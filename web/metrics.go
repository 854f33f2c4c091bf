package web

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ramborogers/bandlock/lock"
)

const namespace = "bandlock"

var (
	upMetric        = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "up"), "Was the last read of the Wi-Fi interface successful.", nil, nil)
	connectedMetric = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "connected"), "Whether the interface is associated.", []string{"interface"}, nil)
	fiveGHzMetric   = prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "on_5ghz"), "Whether the association is on the 5GHz band.", []string{"interface"}, nil)
	channelMetric   = prometheus.NewDesc(prometheus.BuildFQName(namespace, "link", "channel"), "Channel of the current association.", []string{"interface", "band"}, nil)
	signalMetric    = prometheus.NewDesc(prometheus.BuildFQName(namespace, "link", "signal_dbm"), "Signal strength of the current association.", []string{"interface"}, nil)
	rateMetric      = prometheus.NewDesc(prometheus.BuildFQName(namespace, "link", "rate_mbps"), "Link rate of the current association.", []string{"interface"}, nil)
	infoMetric      = prometheus.NewDesc(prometheus.BuildFQName(namespace, "link", "info"), "Network the interface is associated with.", []string{"interface", "ssid", "bssid"}, nil)
)

// Collector exports the live association as Prometheus metrics. The radio is
// read on every scrape.
type Collector struct {
	mutex    sync.Mutex
	snapshot func() (lock.Snapshot, error)

	totalScrapes prometheus.Counter
}

// NewCollector creates a collector reading through snapshot.
func NewCollector(snapshot func() (lock.Snapshot, error)) *Collector {
	return &Collector{
		snapshot: snapshot,
		totalScrapes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Total reads of the Wi-Fi interface.",
		}),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upMetric
	ch <- connectedMetric
	ch <- fiveGHzMetric
	ch <- channelMetric
	ch <- signalMetric
	ch <- rateMetric
	ch <- infoMetric
	ch <- c.totalScrapes.Desc()
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.totalScrapes.Inc()
	ch <- c.totalScrapes

	s, err := c.snapshot()
	if err != nil {
		ch <- prometheus.MustNewConstMetric(upMetric, prometheus.GaugeValue, 0)
		return
	}
	ch <- prometheus.MustNewConstMetric(upMetric, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(connectedMetric, prometheus.GaugeValue, boolValue(s.Connected), s.Interface)
	ch <- prometheus.MustNewConstMetric(fiveGHzMetric, prometheus.GaugeValue, boolValue(s.OnFiveGHz()), s.Interface)
	if !s.Connected {
		return
	}
	ch <- prometheus.MustNewConstMetric(channelMetric, prometheus.GaugeValue, float64(s.Channel), s.Interface, s.Band)
	ch <- prometheus.MustNewConstMetric(signalMetric, prometheus.GaugeValue, float64(s.Signal), s.Interface)
	ch <- prometheus.MustNewConstMetric(rateMetric, prometheus.GaugeValue, float64(s.Rate), s.Interface)
	ch <- prometheus.MustNewConstMetric(infoMetric, prometheus.GaugeValue, 1, s.Interface, s.SSID, s.BSSID)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

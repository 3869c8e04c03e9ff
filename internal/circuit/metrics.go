package circuit

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
)

// metrics holds the circuit's Prometheus instrumentation. One set is
// created per Circuit so multiple circuits in the same process don't
// collide on registration; callers that want process-wide scraping
// register m.collectors() with their own registry.
type metrics struct {
	packetsSent     prometheus.Counter
	packetsRecv     prometheus.Counter
	retransmits     prometheus.Counter
	acked           prometheus.Counter
	reliableTimeout prometheus.Counter
	rtt             prometheus.Histogram
}

func newMetrics(circuitID string) *metrics {
	labels := prometheus.Labels{"circuit": circuitID}
	return &metrics{
		packetsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "viewer_circuit_packets_sent_total",
			Help:        "UDP datagrams sent on this circuit.",
			ConstLabels: labels,
		}),
		packetsRecv: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "viewer_circuit_packets_received_total",
			Help:        "UDP datagrams received on this circuit.",
			ConstLabels: labels,
		}),
		retransmits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "viewer_circuit_retransmits_total",
			Help:        "Reliable packets retransmitted.",
			ConstLabels: labels,
		}),
		acked: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "viewer_circuit_acked_total",
			Help:        "Reliable packets that received an ACK.",
			ConstLabels: labels,
		}),
		reliableTimeout: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "viewer_circuit_reliable_timeouts_total",
			Help:        "Reliable packets abandoned without an ACK.",
			ConstLabels: labels,
		}),
		rtt: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "viewer_circuit_rtt_seconds",
			Help:        "Time between a reliable send and its ACK.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),
	}
}

// collectors returns every metric so the caller can register them
// with a prometheus.Registerer of its choosing.
func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.packetsSent, m.packetsRecv, m.retransmits, m.acked, m.reliableTimeout, m.rtt,
	}
}

// Collectors exposes this circuit's Prometheus instrumentation for
// registration with a prometheus.Registerer, e.g. prometheus.MustRegister
// followed by promhttp.Handler on a /metrics endpoint.
func (c *Circuit) Collectors() []prometheus.Collector {
	if c.metrics == nil {
		return nil
	}
	return c.metrics.collectors()
}

// dedupWindow is a small sliding-window de-dup cache keyed by inbound
// sequence. spec.md does not require it (duplicate delivery is
// acceptable protocol behaviour) but permits it; processInbound uses
// it to suppress a second dispatch of a reliable packet's retransmit.
type dedupWindow struct {
	cache *lru.Cache
}

func newDedupWindow(size int) *dedupWindow {
	c, err := lru.New(size)
	if err != nil {
		// size is always a positive compile-time constant from the
		// caller; New only fails for size <= 0.
		panic(err)
	}
	return &dedupWindow{cache: c}
}

// Seen reports whether sequence was already recorded, and records it.
func (d *dedupWindow) Seen(sequence uint32) bool {
	if d.cache.Contains(sequence) {
		return true
	}
	d.cache.Add(sequence, struct{}{})
	return false
}

// newCorrelationID mints a short sortable ID for log correlation
// across a single send/ack or handshake round trip.
func newCorrelationID() string {
	return xid.New().String()
}

package keeper

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
)

// Metrics holds the prometheus collectors updated by homes and replicas.
type Metrics struct {
	Dispatched    *prometheus.CounterVec
	Updates       *prometheus.CounterVec
	DoubleUpdates *prometheus.CounterVec
	Processed     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Dispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optics_dispatched_messages_total",
				Help: "Messages dispatched by a home, by destination domain",
			},
			[]string{"origin", "destination"},
		),
		Updates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optics_signed_updates_total",
				Help: "Signed updates submitted to a home or replica",
			},
			[]string{"role", "home_domain", "result"},
		),
		DoubleUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optics_double_updates_total",
				Help: "Double updates that failed a home or replica",
			},
			[]string{"role", "home_domain"},
		),
		Processed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "optics_processed_messages_total",
				Help: "Messages processed by a replica",
			},
			[]string{"origin", "destination", "result"},
		),
	}
}

func domainLabel(domain uint32) string {
	return strconv.FormatUint(uint64(domain), 10)
}

func (m *Metrics) recordUpdate(role string, domain uint32, err error) {
	result := resultAccepted
	if err != nil {
		result = resultRejected
	}
	m.Updates.WithLabelValues(role, domainLabel(domain), result).Inc()
}

func (m *Metrics) recordDoubleUpdate(role string, domain uint32) {
	m.DoubleUpdates.WithLabelValues(role, domainLabel(domain)).Inc()
}

func (m *Metrics) recordDispatch(origin, destination uint32) {
	m.Dispatched.WithLabelValues(domainLabel(origin), domainLabel(destination)).Inc()
}

func (m *Metrics) recordProcess(origin, destination uint32, success bool) {
	result := resultAccepted
	if !success {
		result = resultRejected
	}
	m.Processed.WithLabelValues(domainLabel(origin), domainLabel(destination), result).Inc()
}
